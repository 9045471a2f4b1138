// lcd-video - play monochrome video on a character LCD
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package receiver

import (
	"errors"
	"fmt"
	"io"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

var ErrDisconnected = errors.New("sender disconnected")

// Receiver reassembles frame records from a byte stream. The stream may
// deliver a record in any number of pieces.
//
// A read that returns no data means the sender has gone away. That, or
// any read error, latches the Receiver: every later call to Next returns
// the same error without touching the stream again.
type Receiver struct {
	r     io.Reader
	buf   glyph.Record
	fault error
}

func NewReceiver(r io.Reader) *Receiver {
	return &Receiver{r: r}
}

// Next blocks until a complete record has arrived. The returned record
// is overwritten by the following call.
func (rc *Receiver) Next() (*glyph.Record, error) {
	if rc.fault != nil {
		return nil, rc.fault
	}
	off := 0
	for {
		n, err := rc.r.Read(rc.buf[off:])
		off += n
		if off == glyph.RecordSize {
			return &rc.buf, nil
		}
		if err != nil && err != io.EOF {
			rc.fault = fmt.Errorf("receiving frame: %w", err)
			return nil, rc.fault
		}
		if n == 0 || err == io.EOF {
			rc.fault = fmt.Errorf("%w after %d of %d bytes", ErrDisconnected, off, glyph.RecordSize)
			return nil, rc.fault
		}
	}
}

// Fault returns the latched error, or nil while the Receiver is healthy.
func (rc *Receiver) Fault() error {
	return rc.fault
}
