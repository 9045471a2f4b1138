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

package encoder

import (
	"bufio"
	"io"
	"os"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// Encoder appends frame records to a flat binary stream. The output has
// no header; its length is always a multiple of glyph.RecordSize.
type Encoder struct {
	w      *bufio.Writer
	c      io.Closer
	rec    glyph.Record
	frames int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// CreateFile creates (or truncates) filename and returns an Encoder
// writing to it. Close must be called to flush the file.
func CreateFile(filename string) (*Encoder, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		w: bufio.NewWriterSize(f, 64*1024),
		c: f,
	}, nil
}

// WriteFrame encodes b and appends it. Nothing is written when b has the
// wrong size.
func (e *Encoder) WriteFrame(b *Bitmap) error {
	if err := EncodeFrame(b, &e.rec); err != nil {
		return err
	}
	if _, err := e.w.Write(e.rec[:]); err != nil {
		return err
	}
	e.frames++
	return nil
}

// Frames returns the number of records written.
func (e *Encoder) Frames() int {
	return e.frames
}

func (e *Encoder) Close() error {
	if err := e.w.Flush(); err != nil {
		return err
	}
	if e.c != nil {
		return e.c.Close()
	}
	return nil
}
