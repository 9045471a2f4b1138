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
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/lcd-video/stream"
)

const (
	pacingAck   = "ack"
	pacingDelay = "delay"
)

type Config struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	File    string `yaml:"file"`
	// FPS is the frame rate in delay pacing and the maximum frame rate in
	// ack pacing, where 0 removes the limit.
	FPS        float64       `yaml:"fps"`
	Pacing     string        `yaml:"pacing"`
	AckTimeout time.Duration `yaml:"ack-timeout"`
}

var defaultConfig = Config{
	Address:    "",
	Port:       stream.DefaultPort,
	File:       "video.bin",
	FPS:        30,
	Pacing:     pacingAck,
	AckTimeout: stream.DefaultAckTimeout,
}

func (conf *Config) Validate() error {
	if conf.Address == "" {
		return errors.New("no player address configured")
	}
	if conf.Port <= 0 || conf.Port > 65535 {
		return fmt.Errorf("invalid port %d", conf.Port)
	}
	if conf.File == "" {
		return errors.New("no video file configured")
	}
	switch conf.Pacing {
	case pacingAck:
		if conf.FPS < 0 {
			return errors.New("fps can't be negative")
		}
		if conf.AckTimeout <= 0 {
			return errors.New("ack-timeout must be positive")
		}
	case pacingDelay:
		if conf.FPS <= 0 {
			return errors.New("delay pacing needs a positive fps")
		}
	default:
		return fmt.Errorf("pacing must be %q or %q, not %q", pacingAck, pacingDelay, conf.Pacing)
	}
	return nil
}

func ParseConfigFile(filename string, args Args) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil && !(os.IsNotExist(err) && args.Address != "") {
		return nil, err
	}
	return ParseConfig(buf, args)
}

// ParseConfig reads buf over the defaults and applies any command line
// overrides before validating.
func ParseConfig(buf []byte, args Args) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	if args.Address != "" {
		conf.Address = args.Address
	}
	if args.Port != 0 {
		conf.Port = args.Port
	}
	if args.File != "" {
		conf.File = args.File
	}
	if args.FPS != nil {
		conf.FPS = *args.FPS
	}
	if args.Pacing != "" {
		conf.Pacing = args.Pacing
	}
	if args.AckTimeout != nil {
		conf.AckTimeout = *args.AckTimeout
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
