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
	"fmt"

	"github.com/TheCacophonyProject/lcd-video/display"
	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// Renderer shows frame records using the display's custom characters.
// Slot k always holds glyph k of the record and is shown at the cell
// glyph.CellPosition(k).
type Renderer struct {
	d      display.Display
	glyphs [glyph.GlyphsPerRecord]glyph.RowGlyph
}

func NewRenderer(d display.Display) *Renderer {
	return &Renderer{d: d}
}

// Render transposes the whole record before touching the display, loads
// all 8 slots and only then writes the character codes.
func (r *Renderer) Render(rec *glyph.Record) error {
	glyph.TransposeRecord(rec, &r.glyphs)

	for slot := range r.glyphs {
		if err := r.d.LoadGlyph(slot, &r.glyphs[slot]); err != nil {
			return fmt.Errorf("loading glyph %d: %w", slot, err)
		}
	}

	for row := 0; row < glyph.GridRows; row++ {
		if err := r.d.MoveCursor(0, row); err != nil {
			return err
		}
		for col := 0; col < glyph.GridCols; col++ {
			if err := r.d.WriteCharCode(byte(row*glyph.GridCols + col)); err != nil {
				return err
			}
		}
	}
	return nil
}
