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


package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/lcd-video/display"
	"github.com/TheCacophonyProject/lcd-video/glyph"
	"github.com/TheCacophonyProject/lcd-video/receiver"
	"github.com/TheCacophonyProject/lcd-video/stream"
)

const (
	pacingAck   = "ack"
	pacingDelay = "delay"
)

type Config struct {
	DeviceID        int                   `yaml:"-"`
	DeviceName      string                `yaml:"-"`
	Port            int                   `yaml:"port"`
	Pacing          string                `yaml:"pacing"`
	LCD             display.HD44780Config `yaml:"lcd"`
	LEDPin          string                `yaml:"led-pin"`
	ReclaimInterval int                   `yaml:"reclaim-interval"`
	ConnectDelay    time.Duration         `yaml:"connect-delay"`
}

var defaultConfig = Config{
	Port:            stream.DefaultPort,
	Pacing:          pacingAck,
	LCD:             display.DefaultHD44780Config(),
	LEDPin:          "",
	ReclaimInterval: receiver.DefaultReclaimInterval,
	ConnectDelay:    3 * time.Second,
}

func (conf *Config) Validate() error {
	if conf.Port <= 0 || conf.Port > 65535 {
		return fmt.Errorf("invalid port %d", conf.Port)
	}
	if conf.Pacing != pacingAck && conf.Pacing != pacingDelay {
		return fmt.Errorf("pacing must be %q or %q, not %q", pacingAck, pacingDelay, conf.Pacing)
	}
	if conf.LCD.Cols < glyph.GridCols || conf.LCD.Rows < glyph.GridRows {
		return fmt.Errorf("a %dx%d display is too small for video", conf.LCD.Cols, conf.LCD.Rows)
	}
	if conf.ReclaimInterval < 0 {
		return errors.New("reclaim-interval can't be negative")
	}
	if conf.ConnectDelay < 0 {
		return errors.New("connect-delay can't be negative")
	}
	return nil
}

// PlayerConfig returns the playback settings.
func (conf *Config) PlayerConfig() receiver.Config {
	return receiver.Config{
		AckPaced:        conf.Pacing == pacingAck,
		ReclaimInterval: conf.ReclaimInterval,
		Cols:            conf.LCD.Cols,
		Rows:            conf.LCD.Rows,
		ConnectedHold:   receiver.DefaultConnectedHold,
	}
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
