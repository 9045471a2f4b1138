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
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/lcd-video/encoder"
	"github.com/TheCacophonyProject/lcd-video/glyph"
)

const (
	formatPNG   = "png"
	formatCPTV  = "cptv"
	formatVideo = "video"
)

var version = "<not set>"

type Args struct {
	Input      string `arg:"positional,required" help:"PNG directory, CPTV recording or video file"`
	Output     string `arg:"-o,--output" help:"encoded output file"`
	Format     string `arg:"-f,--format" help:"input format: png, cptv or video (default: from the input)"`
	Threshold  uint8  `arg:"--threshold" help:"pixels brighter than this are lit"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.Output = "video.bin"
	args.Threshold = encoder.DefaultThreshold
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

	format := args.Format
	if format == "" {
		var err error
		if format, err = detectFormat(args.Input); err != nil {
			return err
		}
	}
	log.Printf("encoding %s (%s) to %s, threshold %d", args.Input, format, args.Output, args.Threshold)

	src, err := openSource(format, args.Input, args.Threshold)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	enc, err := encoder.CreateFile(args.Output)
	if err != nil {
		return err
	}
	count, err := encoder.EncodeAll(src, enc)
	if err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	log.Printf("wrote %d frames (%d bytes)", count, count*glyph.RecordSize)
	return nil
}

func detectFormat(input string) (string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return formatPNG, nil
	}
	if strings.EqualFold(filepath.Ext(input), ".cptv") {
		return formatCPTV, nil
	}
	return formatVideo, nil
}

func openSource(format, input string, threshold uint8) (encoder.Source, error) {
	switch format {
	case formatPNG:
		return encoder.NewPNGSequence(input, threshold)
	case formatCPTV:
		return encoder.OpenCPTV(input, threshold)
	case formatVideo:
		if !encoder.VideoSupported {
			return nil, fmt.Errorf("%s: video input needs lcd-encode built with -tags gocv", input)
		}
		return encoder.OpenVideo(input, threshold)
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}
