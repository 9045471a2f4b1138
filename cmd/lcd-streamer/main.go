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
	"fmt"
	"log"
	"net"
	"os"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/google/uuid"

	"github.com/TheCacophonyProject/lcd-video/stream"
)

const dialTimeout = 10 * time.Second

var version = "<not set>"

type Args struct {
	ConfigFile string         `arg:"-c,--config" help:"path to configuration file"`
	Address    string         `arg:"-a,--address" help:"player address, overrides the configuration file"`
	Port       int            `arg:"-p,--port" help:"player port"`
	File       string         `arg:"-f,--file" help:"encoded video file to stream"`
	FPS        *float64       `arg:"--fps" help:"frame rate, or maximum frame rate with ack pacing (0 for none)"`
	Pacing     string         `arg:"--pacing" help:"ack or delay"`
	AckTimeout *time.Duration `arg:"--ack-timeout" help:"how long to wait for each ack"`
	Timestamps bool           `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/lcd-streamer.yaml"
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()
	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	session := uuid.New()
	log.SetPrefix(fmt.Sprintf("[%s] ", session.String()[:8]))
	log.Printf("version: %s", version)

	conf, err := ParseConfigFile(args.ConfigFile, args)
	if err != nil {
		return err
	}
	logConfig(conf)

	ff, err := stream.OpenFrameFile(conf.File)
	if os.IsNotExist(err) {
		return fmt.Errorf("video file %q not found", conf.File)
	} else if err != nil {
		return err
	}
	defer ff.Close()

	log.Printf("connecting to player at %s:%d", conf.Address, conf.Port)
	conn, err := stream.Dial(conf.Address, conf.Port, dialTimeout)
	if err != nil {
		return fmt.Errorf("could not connect to %s:%d: %w", conf.Address, conf.Port, err)
	}
	defer conn.Close()

	log.Printf("connected, streaming %d frames (session %s)", ff.Frames(), session)
	return stream.NewTransmitter(conn, newPacer(conf, conn)).Run(ff)
}

func newPacer(conf *Config, conn net.Conn) stream.Pacer {
	if conf.Pacing == pacingDelay {
		return stream.NewRatePacer(conf.FPS)
	}
	ack := stream.NewAckPacer(conn, conf.AckTimeout)
	if conf.FPS <= 0 {
		return ack
	}
	return stream.Pacers{ack, stream.NewRatePacer(conf.FPS)}
}

func logConfig(conf *Config) {
	log.Printf("player: %s:%d", conf.Address, conf.Port)
	log.Printf("file: %s", conf.File)
	log.Printf("pacing: %s", conf.Pacing)
	if conf.Pacing == pacingAck {
		log.Printf("ack timeout: %s", conf.AckTimeout)
		if conf.FPS > 0 {
			log.Printf("max fps: %.1f", conf.FPS)
		}
	} else {
		log.Printf("fps: %.1f", conf.FPS)
	}
}
