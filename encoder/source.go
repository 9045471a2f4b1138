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
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/gift"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// Source produces video frames as thresholded bitmaps. Next returns
// io.EOF once there are no more frames.
type Source interface {
	Next(b *Bitmap) error
}

// EncodeAll reads every frame from src and writes it to enc. It returns
// the number of frames encoded.
func EncodeAll(src Source, enc *Encoder) (int, error) {
	b := NewFrameBitmap()
	count := 0
	for {
		err := src.Next(b)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("frame %d: %w", count, err)
		}
		if err := enc.WriteFrame(b); err != nil {
			return count, fmt.Errorf("frame %d: %w", count, err)
		}
		count++
	}
}

// Scaler converts images of any size to frame bitmaps: greyscale,
// resize to 20x16, then threshold.
type Scaler struct {
	filter *gift.GIFT
	gray   *image.Gray
	level  uint8
}

func NewScaler(level uint8) *Scaler {
	return &Scaler{
		filter: gift.New(
			gift.Grayscale(),
			gift.Resize(glyph.FrameWidth, glyph.FrameHeight, gift.LanczosResampling),
		),
		gray:  image.NewGray(image.Rect(0, 0, glyph.FrameWidth, glyph.FrameHeight)),
		level: level,
	}
}

func (s *Scaler) Convert(img image.Image, out *Bitmap) error {
	s.filter.Draw(s.gray, img)
	return out.Threshold(s.gray, s.level)
}

// PNGSequence reads a directory of PNG files in name order, one frame
// per file.
type PNGSequence struct {
	files  []string
	next   int
	scaler *Scaler
}

func NewPNGSequence(dir string, level uint8) (*PNGSequence, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no png files found in %s", dir)
	}
	sort.Strings(files)
	return &PNGSequence{
		files:  files,
		scaler: NewScaler(level),
	}, nil
}

func (s *PNGSequence) Next(b *Bitmap) error {
	if s.next >= len(s.files) {
		return io.EOF
	}
	name := s.files[s.next]
	s.next++

	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return s.scaler.Convert(img, b)
}
