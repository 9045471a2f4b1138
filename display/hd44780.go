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
	"io"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

type HD44780Config struct {
	Bus     string `yaml:"i2c-bus"`
	Address uint8  `yaml:"address"`
	Cols    int    `yaml:"cols"`
	Rows    int    `yaml:"rows"`
}

func DefaultHD44780Config() HD44780Config {
	return HD44780Config{
		Bus:     "",
		Address: 0x27,
		Cols:    DefaultCols,
		Rows:    DefaultRows,
	}
}

// HD44780 drives a character LCD behind a PCF8574 I2C backpack.
// periph.io provides the bus; the tinygo driver speaks the controller
// protocol. The driver drops bus errors, so the adapter keeps the first
// one and each method reports it.
type HD44780 struct {
	closer io.Closer
	bus    *periphBus
	dev    hd44780i2c.Device
}

// OpenHD44780 opens the configured I2C bus and initialises the display.
// periph's host.Init must have been called first.
func OpenHD44780(conf HD44780Config) (*HD44780, error) {
	bus, err := i2creg.Open(conf.Bus)
	if err != nil {
		return nil, fmt.Errorf("opening i2c bus %q: %w", conf.Bus, err)
	}
	d := newHD44780(bus, conf.Address)
	d.closer = bus
	err = d.dev.Configure(hd44780i2c.Config{
		Width:  uint8(conf.Cols),
		Height: uint8(conf.Rows),
	})
	if err == nil {
		err = d.bus.takeErr()
	}
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("configuring display: %w", err)
	}
	return d, nil
}

func newHD44780(bus i2c.Bus, addr uint8) *HD44780 {
	pb := &periphBus{bus: bus}
	return &HD44780{
		bus: pb,
		dev: hd44780i2c.New(pb, addr),
	}
}

func (d *HD44780) Clear() error {
	d.dev.ClearDisplay()
	return d.bus.takeErr()
}

func (d *HD44780) WriteText(text string) error {
	d.dev.Print([]byte(text))
	return d.bus.takeErr()
}

func (d *HD44780) LoadGlyph(slot int, bitmap *glyph.RowGlyph) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	d.dev.CreateCharacter(uint8(slot), bitmap[:])
	return d.bus.takeErr()
}

func (d *HD44780) MoveCursor(col, row int) error {
	d.dev.SetCursor(uint8(col), uint8(row))
	return d.bus.takeErr()
}

func (d *HD44780) WriteCharCode(code byte) error {
	d.dev.Print([]byte{code})
	return d.bus.takeErr()
}

func (d *HD44780) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// periphBus adapts a periph I2C bus to the tinygo drivers.I2C interface.
// The first failed transfer is kept until takeErr is called.
type periphBus struct {
	bus i2c.Bus
	err error
}

func (b *periphBus) Tx(addr uint16, w, r []byte) error {
	err := b.bus.Tx(addr, w, r)
	if err != nil && b.err == nil {
		b.err = err
	}
	return err
}

func (b *periphBus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *periphBus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{reg}, buf...), nil)
}

func (b *periphBus) takeErr() error {
	err := b.err
	b.err = nil
	return err
}
