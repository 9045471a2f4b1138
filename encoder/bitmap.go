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

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// DefaultThreshold matches a binary threshold at mid grey.
const DefaultThreshold = 128

var ErrFrameSize = errors.New("frame size does not match the glyph grid")

// Bitmap is a black and white frame. Pix is row-major.
type Bitmap struct {
	Width, Height int
	Pix           []bool
}

func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// NewFrameBitmap returns an empty bitmap of the size the encoder accepts.
func NewFrameBitmap() *Bitmap {
	return NewBitmap(glyph.FrameWidth, glyph.FrameHeight)
}

func (b *Bitmap) At(x, y int) bool {
	return b.Pix[y*b.Width+x]
}

func (b *Bitmap) Set(x, y int, v bool) {
	b.Pix[y*b.Width+x] = v
}

// Threshold fills b from a grey image of the same size. A pixel is set
// when its value is above level.
func (b *Bitmap) Threshold(img *image.Gray, level uint8) error {
	r := img.Bounds()
	if r.Dx() != b.Width || r.Dy() != b.Height {
		return fmt.Errorf("%w: image is %dx%d, want %dx%d", ErrFrameSize, r.Dx(), r.Dy(), b.Width, b.Height)
	}
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.Set(x, y, img.GrayAt(r.Min.X+x, r.Min.Y+y).Y > level)
		}
	}
	return nil
}

// EncodeFrame packs a 20x16 bitmap into a frame record. Cells are taken
// left to right along the top row, then along the bottom row.
func EncodeFrame(b *Bitmap, rec *glyph.Record) error {
	if b.Width != glyph.FrameWidth || b.Height != glyph.FrameHeight {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize,
			b.Width, b.Height, glyph.FrameWidth, glyph.FrameHeight)
	}
	var block glyph.Block
	for i := 0; i < glyph.GlyphsPerRecord; i++ {
		cellX, cellY := glyph.CellPosition(i)
		x0, y0 := cellX*glyph.Cols, cellY*glyph.Rows
		for r := 0; r < glyph.Rows; r++ {
			for c := 0; c < glyph.Cols; c++ {
				block[r][c] = b.At(x0+c, y0+r)
			}
		}
		rec.SetGlyph(i, glyph.Compress(&block))
	}
	return nil
}
