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

package stream

import (
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

const (
	DefaultPort = 8888

	progressInterval = 100
)

// Dial connects to a player.
func Dial(host string, port int, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
}

// Transmitter sends frame records to a player, one at a time.
type Transmitter struct {
	w       io.Writer
	pacer   Pacer
	logf    func(format string, v ...interface{})
	nowFunc func() time.Time
	sent    int
}

// NewTransmitter returns a Transmitter writing to w. pacer may be nil,
// in which case records are sent as fast as w accepts them.
func NewTransmitter(w io.Writer, pacer Pacer) *Transmitter {
	return &Transmitter{
		w:       w,
		pacer:   pacer,
		logf:    log.Printf,
		nowFunc: time.Now,
	}
}

// Sent returns the number of records written so far.
func (t *Transmitter) Sent() int {
	return t.sent
}

// Run sends every record from src. It returns nil once src is exhausted
// and stops at the first send, pacing or source error.
func (t *Transmitter) Run(src RecordSource) error {
	var rec glyph.Record
	start := t.nowFunc()
	for {
		err := src.Next(&rec)
		if err == io.EOF {
			elapsed := t.nowFunc().Sub(start)
			t.logf("streaming complete: %d frames in %.1fs (%.1f fps)",
				t.sent, elapsed.Seconds(), rate(t.sent, elapsed))
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading frame %d: %w", t.sent+1, err)
		}

		// A single write keeps the record contiguous on the wire.
		if _, err := t.w.Write(rec[:]); err != nil {
			return fmt.Errorf("sending frame %d: %w", t.sent+1, err)
		}
		t.sent++

		if t.pacer != nil {
			if err := t.pacer.Pace(t.sent); err != nil {
				return err
			}
		}

		if t.sent%progressInterval == 0 {
			t.logf("sent %d frames (avg %.1f fps)", t.sent, rate(t.sent, t.nowFunc().Sub(start)))
		}
	}
}

func rate(frames int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(frames) / elapsed.Seconds()
}
