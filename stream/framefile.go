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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

var ErrRecordSize = errors.New("stream length is not a multiple of the record size")

// RecordSource yields frame records in order. Next returns io.EOF when
// the source is exhausted.
type RecordSource interface {
	Next(rec *glyph.Record) error
}

// FrameFile reads an encoded video file record by record.
type FrameFile struct {
	f      *os.File
	r      *bufio.Reader
	frames int
}

// OpenFrameFile opens an encoded video. The file must exist and its
// length must be an exact multiple of glyph.RecordSize.
func OpenFrameFile(filename string) (*FrameFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size()%glyph.RecordSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%s: %w (%d bytes)", filename, ErrRecordSize, info.Size())
	}
	return &FrameFile{
		f:      f,
		r:      bufio.NewReader(f),
		frames: int(info.Size() / glyph.RecordSize),
	}, nil
}

// Frames returns the number of records in the file.
func (ff *FrameFile) Frames() int {
	return ff.frames
}

func (ff *FrameFile) Next(rec *glyph.Record) error {
	return readRecord(ff.r, rec)
}

func (ff *FrameFile) Close() error {
	return ff.f.Close()
}

// NewRecordReader returns a RecordSource reading from any stream.
func NewRecordReader(r io.Reader) RecordSource {
	return &recordReader{r: r}
}

type recordReader struct {
	r io.Reader
}

func (rr *recordReader) Next(rec *glyph.Record) error {
	return readRecord(rr.r, rec)
}

func readRecord(r io.Reader, rec *glyph.Record) error {
	_, err := io.ReadFull(r, rec[:])
	if err == io.ErrUnexpectedEOF {
		return ErrRecordSize
	}
	return err
}
