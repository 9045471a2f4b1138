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

// Package glyph converts between 8x5 pixel blocks and the two byte
// layouts used for HD44780 custom characters: the column-major layout
// used on the wire and in encoded files, and the row-major layout the
// display controller expects in CGRAM.
package glyph

const (
	// Rows and Cols are the pixel dimensions of one character cell.
	Rows = 8
	Cols = 5

	// GridCols and GridRows are the number of character cells used to
	// show a frame. Cells are numbered left to right, top row first.
	GridCols = 4
	GridRows = 2

	// GlyphsPerRecord is the number of custom characters per frame; the
	// controller only has this many CGRAM slots.
	GlyphsPerRecord = GridCols * GridRows

	// ColumnGlyphSize is the encoded size of one glyph.
	ColumnGlyphSize = Cols

	// RecordSize is the size of one frame on the wire and on disk.
	RecordSize = GlyphsPerRecord * ColumnGlyphSize

	// FrameWidth and FrameHeight are the pixel dimensions of a frame.
	FrameWidth  = GridCols * Cols
	FrameHeight = GridRows * Rows
)

// Block is one character cell worth of pixels, indexed [row][col].
type Block [Rows][Cols]bool

// ColumnGlyph holds one byte per pixel column. Bit 7-r of byte c is the
// pixel at row r, column c.
type ColumnGlyph [ColumnGlyphSize]byte

// RowGlyph holds one byte per pixel row. Bit 4-c of byte r is the pixel
// at row r, column c. This is the CGRAM layout.
type RowGlyph [Rows]byte

// Record is a complete frame: 8 column-major glyphs back to back.
type Record [RecordSize]byte

// Compress packs a pixel block into its column-major form.
func Compress(b *Block) ColumnGlyph {
	var g ColumnGlyph
	for c := 0; c < Cols; c++ {
		var v byte
		for r := 0; r < Rows; r++ {
			if b[r][c] {
				v |= 1 << (7 - r)
			}
		}
		g[c] = v
	}
	return g
}

// Transpose converts a column-major glyph into row-major form, writing
// into out so the caller can reuse the buffer between frames.
func Transpose(g *ColumnGlyph, out *RowGlyph) {
	for r := 0; r < Rows; r++ {
		var v byte
		for c := 0; c < Cols; c++ {
			if g[c]&(1<<(7-r)) != 0 {
				v |= 1 << (4 - c)
			}
		}
		out[r] = v
	}
}

// Glyph returns a pointer to glyph i (0-7) of the record. The returned
// glyph aliases the record.
func (rec *Record) Glyph(i int) *ColumnGlyph {
	off := i * ColumnGlyphSize
	return (*ColumnGlyph)(rec[off : off+ColumnGlyphSize])
}

// SetGlyph copies g into position i of the record.
func (rec *Record) SetGlyph(i int, g ColumnGlyph) {
	copy(rec[i*ColumnGlyphSize:], g[:])
}

// TransposeRecord transposes every glyph of rec into out.
func TransposeRecord(rec *Record, out *[GlyphsPerRecord]RowGlyph) {
	for i := range out {
		Transpose(rec.Glyph(i), &out[i])
	}
}

// Pixel reports whether the pixel at row r, column c of a row-major
// glyph is lit.
func (g *RowGlyph) Pixel(r, c int) bool {
	return g[r]&(1<<(4-c)) != 0
}

// CellPosition returns the display column and row of glyph slot i.
func CellPosition(i int) (col, row int) {
	return i % GridCols, i / GridCols
}
