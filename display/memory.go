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

package display

import (
	"fmt"
	"strings"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// NewMemory returns an in-memory emulation of a cols x rows character
// LCD with 8 custom character slots.
func NewMemory(cols, rows int) *Memory {
	m := &Memory{
		cols:  cols,
		rows:  rows,
		ddram: make([][]byte, rows),
	}
	for i := range m.ddram {
		m.ddram[i] = make([]byte, cols)
	}
	m.Clear()
	m.Ops = nil
	return m
}

// Memory keeps the character and glyph memory of an emulated display.
// Every call is appended to Ops which lets tests check ordering.
type Memory struct {
	cols, rows int
	ddram      [][]byte
	cgram      [glyph.GlyphsPerRecord]glyph.RowGlyph
	col, row   int
	Ops        []string
}

func (m *Memory) Clear() error {
	m.Ops = append(m.Ops, "clear")
	for _, line := range m.ddram {
		for i := range line {
			line[i] = ' '
		}
	}
	m.col, m.row = 0, 0
	return nil
}

func (m *Memory) WriteText(text string) error {
	m.Ops = append(m.Ops, "text:"+text)
	for i := 0; i < len(text); i++ {
		m.put(text[i])
	}
	return nil
}

func (m *Memory) LoadGlyph(slot int, bitmap *glyph.RowGlyph) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	m.Ops = append(m.Ops, fmt.Sprintf("glyph:%d", slot))
	m.cgram[slot] = *bitmap
	return nil
}

func (m *Memory) MoveCursor(col, row int) error {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return fmt.Errorf("cursor (%d,%d) outside %dx%d display", col, row, m.cols, m.rows)
	}
	m.Ops = append(m.Ops, fmt.Sprintf("move:%d,%d", col, row))
	m.col, m.row = col, row
	return nil
}

func (m *Memory) WriteCharCode(code byte) error {
	m.Ops = append(m.Ops, fmt.Sprintf("char:%d", code))
	m.put(code)
	return nil
}

func (m *Memory) put(b byte) {
	if m.col >= m.cols {
		return
	}
	m.ddram[m.row][m.col] = b
	m.col++
}

// Line returns the characters on row. Custom character codes are shown
// as their slot digit.
func (m *Memory) Line(row int) string {
	var sb strings.Builder
	for _, b := range m.ddram[row] {
		if int(b) < glyph.GlyphsPerRecord {
			sb.WriteByte('0' + b)
		} else {
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// Glyph returns the bitmap loaded into slot.
func (m *Memory) Glyph(slot int) glyph.RowGlyph {
	return m.cgram[slot]
}

// Pixel reports whether the pixel at x, y of the visible screen is lit.
// Cells holding ordinary text are treated as unlit.
func (m *Memory) Pixel(x, y int) bool {
	col, row := x/glyph.Cols, y/glyph.Rows
	code := m.ddram[row][col]
	if int(code) >= glyph.GlyphsPerRecord {
		return false
	}
	return m.cgram[code].Pixel(y%glyph.Rows, x%glyph.Cols)
}

// Render draws the video area of the screen as text, '#' for lit pixels.
func (m *Memory) Render() string {
	var sb strings.Builder
	for y := 0; y < glyph.FrameHeight; y++ {
		for x := 0; x < glyph.FrameWidth; x++ {
			if m.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
