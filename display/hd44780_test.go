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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// testBus is an i2c.Bus that counts transfers and fails them all while
// fail is set.
type testBus struct {
	fail  error
	txs   int
	addrs map[uint16]bool
}

func (b *testBus) String() string {
	return "testbus"
}

func (b *testBus) Tx(addr uint16, w, r []byte) error {
	b.txs++
	if b.addrs == nil {
		b.addrs = make(map[uint16]bool)
	}
	b.addrs[addr] = true
	return b.fail
}

func (b *testBus) SetSpeed(hz int64) error {
	return nil
}

func hd44780Calls(d *HD44780) map[string]func() error {
	var g glyph.RowGlyph
	return map[string]func() error{
		"clear":  d.Clear,
		"text":   func() error { return d.WriteText("Connected!") },
		"glyph":  func() error { return d.LoadGlyph(3, &g) },
		"cursor": func() error { return d.MoveCursor(0, 1) },
		"char":   func() error { return d.WriteCharCode(5) },
	}
}

func TestHD44780Writes(t *testing.T) {
	bus := new(testBus)
	d := newHD44780(bus, 0x27)

	for name, call := range hd44780Calls(d) {
		assert.NoError(t, call(), name)
	}
	assert.NotZero(t, bus.txs)
	assert.Equal(t, map[uint16]bool{0x27: true}, bus.addrs)
	assert.NoError(t, d.Close())
}

func TestHD44780ReportsBusErrors(t *testing.T) {
	bus := &testBus{fail: errors.New("i2c: nack")}
	d := newHD44780(bus, 0x27)

	for name, call := range hd44780Calls(d) {
		txs := bus.txs
		assert.EqualError(t, call(), "i2c: nack", name)
		assert.Greater(t, bus.txs, txs, name)
	}
}

func TestHD44780ErrorClearsAfterReport(t *testing.T) {
	bus := &testBus{fail: errors.New("i2c: nack")}
	d := newHD44780(bus, 0x27)

	require.Error(t, d.Clear())
	bus.fail = nil
	assert.NoError(t, d.WriteText("IP:"))
	assert.NoError(t, d.MoveCursor(0, 1))
}

func TestHD44780BadSlotSkipsBus(t *testing.T) {
	bus := new(testBus)
	d := newHD44780(bus, 0x27)

	var g glyph.RowGlyph
	assert.Error(t, d.LoadGlyph(glyph.GlyphsPerRecord, &g))
	assert.Zero(t, bus.txs)
}
