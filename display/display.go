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

const (
	DefaultCols = 16
	DefaultRows = 2
)

// Display is the subset of a character LCD used for video playback and
// status messages.
type Display interface {
	Clear() error
	WriteText(text string) error
	LoadGlyph(slot int, bitmap *glyph.RowGlyph) error
	MoveCursor(col, row int) error
	WriteCharCode(code byte) error
}

func checkSlot(slot int) error {
	if slot < 0 || slot >= glyph.GlyphsPerRecord {
		return fmt.Errorf("glyph slot %d out of range", slot)
	}
	return nil
}

// ShowStatus clears d and writes text, one line per display row. Lines
// are truncated to cols characters and lines past the last row dropped.
func ShowStatus(d Display, cols, rows int, text string) error {
	if err := d.Clear(); err != nil {
		return err
	}
	for row, line := range strings.Split(text, "\n") {
		if row >= rows {
			break
		}
		if err := d.MoveCursor(0, row); err != nil {
			return err
		}
		if err := d.WriteText(Truncate(line, cols)); err != nil {
			return err
		}
	}
	return nil
}

// Truncate shortens s to at most n character cells. The controller only
// knows ASCII, so anything outside printable ASCII becomes '?' and every
// byte returned fills exactly one cell.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if len(out) == n {
			break
		}
		if r < ' ' || r > '~' {
			r = '?'
		}
		out = append(out, byte(r))
	}
	return string(out)
}
