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

package encoder

import (
	"image"
	"image/color"
	"math"
	"os"

	cptv "github.com/TheCacophonyProject/go-cptv"
	"github.com/TheCacophonyProject/go-cptv/cptvframe"
)

// CPTVSource reads thermal recordings. Each frame is stretched between
// its own coldest and warmest pixel before scaling, so warm objects show
// as lit pixels.
type CPTVSource struct {
	file   *os.File
	reader *cptv.Reader
	frame  *cptvframe.Frame
	gray   *image.Gray
	scaler *Scaler
}

func OpenCPTV(filename string, level uint8) (*CPTVSource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	r, err := cptv.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &CPTVSource{
		file:   f,
		reader: r,
		frame:  cptvframe.NewFrame(r),
		gray:   image.NewGray(image.Rect(0, 0, r.ResX(), r.ResY())),
		scaler: NewScaler(level),
	}, nil
}

func (s *CPTVSource) Next(b *Bitmap) error {
	if err := s.reader.ReadFrame(s.frame); err != nil {
		return err
	}
	normalise(s.frame.Pix, s.gray)
	return s.scaler.Convert(s.gray, b)
}

func (s *CPTVSource) Close() error {
	return s.file.Close()
}

// normalise maps raw thermal values onto 0-255 using the frame's range.
func normalise(pix [][]uint16, out *image.Gray) {
	var valMax uint16
	var valMin uint16 = math.MaxUint16
	for _, row := range pix {
		for _, val := range row {
			if val > valMax {
				valMax = val
			}
			if val < valMin {
				valMin = val
			}
		}
	}
	span := uint32(valMax) - uint32(valMin)
	for y, row := range pix {
		for x, val := range row {
			var v uint8
			if span > 0 {
				v = uint8((uint32(val-valMin) * 255) / span)
			}
			out.SetGray(x, y, color.Gray{Y: v})
		}
	}
}
