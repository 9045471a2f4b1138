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

//go:build gocv

package encoder

import (
	"image"
	"io"

	"gocv.io/x/gocv"

	"github.com/TheCacophonyProject/lcd-video/glyph"
)

// VideoSupported reports whether this build can decode video files.
const VideoSupported = true

// VideoSource decodes any video OpenCV can open. Frames are converted
// to grey, resized to 20x16 with Lanczos interpolation and thresholded.
type VideoSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	gray    gocv.Mat
	small   gocv.Mat
	bw      gocv.Mat
	level   uint8
}

func OpenVideo(filename string, level uint8) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(filename)
	if err != nil {
		return nil, err
	}
	return &VideoSource{
		capture: capture,
		frame:   gocv.NewMat(),
		gray:    gocv.NewMat(),
		small:   gocv.NewMat(),
		bw:      gocv.NewMat(),
		level:   level,
	}, nil
}

func (s *VideoSource) Next(b *Bitmap) error {
	if ok := s.capture.Read(&s.frame); !ok || s.frame.Empty() {
		return io.EOF
	}
	gocv.CvtColor(s.frame, &s.gray, gocv.ColorBGRToGray)
	gocv.Resize(s.gray, &s.small, image.Pt(glyph.FrameWidth, glyph.FrameHeight), 0, 0, gocv.InterpolationLanczos4)
	gocv.Threshold(s.small, &s.bw, float32(s.level), 255, gocv.ThresholdBinary)
	for y := 0; y < glyph.FrameHeight; y++ {
		for x := 0; x < glyph.FrameWidth; x++ {
			b.Set(x, y, s.bw.GetUCharAt(y, x) > 0)
		}
	}
	return nil
}

func (s *VideoSource) Close() error {
	s.frame.Close()
	s.gray.Close()
	s.small.Close()
	s.bw.Close()
	return s.capture.Close()
}
