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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

func TestShowStatusTwoLines(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	require.NoError(t, ShowStatus(m, DefaultCols, DefaultRows, "Waiting for\nconnection..."))

	assert.Equal(t, "Waiting for     ", m.Line(0))
	assert.Equal(t, "connection...   ", m.Line(1))
}

func TestShowStatusTruncates(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	err := ShowStatus(m, DefaultCols, DefaultRows, "Error F12\nconnection reset by peer")
	require.NoError(t, err)

	assert.Equal(t, "Error F12       ", m.Line(0))
	assert.Equal(t, "connection reset", m.Line(1))
}

func TestShowStatusDropsExtraLines(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	require.NoError(t, ShowStatus(m, DefaultCols, DefaultRows, "a\nb\nc"))

	assert.Equal(t, "a", strings.TrimSpace(m.Line(0)))
	assert.Equal(t, "b", strings.TrimSpace(m.Line(1)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 16))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestTruncateNonASCII(t *testing.T) {
	got := Truncate("dial tcp: résolution échouée", 16)
	assert.Equal(t, "dial tcp: r?solu", got)
	assert.Len(t, got, 16)

	assert.Equal(t, "tab?here", Truncate("tab\there", 16))
	assert.Equal(t, "??", Truncate("日本語", 2))
}

func TestShowStatusNonASCIIFitsRow(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	err := ShowStatus(m, DefaultCols, DefaultRows, "Error F3\nécriture échouée sur le bus")
	require.NoError(t, err)

	assert.Equal(t, "Error F3        ", m.Line(0))
	assert.Equal(t, "?criture ?chou?e", m.Line(1))
}

func TestMemoryGlyphRendering(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	g := glyph.RowGlyph{0x10, 0, 0, 0, 0, 0, 0, 0x01}
	require.NoError(t, m.LoadGlyph(5, &g))
	require.NoError(t, m.MoveCursor(1, 1))
	require.NoError(t, m.WriteCharCode(5))

	assert.True(t, m.Pixel(5, 8))
	assert.True(t, m.Pixel(9, 15))
	assert.False(t, m.Pixel(0, 0))
	assert.Equal(t, " 5              ", m.Line(1))
}

func TestMemoryRejectsBadSlot(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	assert.Error(t, m.LoadGlyph(8, new(glyph.RowGlyph)))
	assert.Error(t, m.LoadGlyph(-1, new(glyph.RowGlyph)))
}

func TestMemoryRejectsBadCursor(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	assert.Error(t, m.MoveCursor(16, 0))
	assert.Error(t, m.MoveCursor(0, 2))
}

func TestMemoryTextCellsRenderBlank(t *testing.T) {
	m := NewMemory(DefaultCols, DefaultRows)
	require.NoError(t, m.WriteText("####"))
	for x := 0; x < glyph.FrameWidth; x++ {
		assert.False(t, m.Pixel(x, 0))
	}
}
