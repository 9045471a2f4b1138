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

//go:build !gocv

package encoder

import "errors"

const VideoSupported = false

// VideoSource is only available in builds with the gocv tag.
type VideoSource struct{}

func OpenVideo(filename string, level uint8) (*VideoSource, error) {
	return nil, errors.New("video decoding needs a build with -tags gocv")
}

func (s *VideoSource) Next(b *Bitmap) error {
	return errors.New("video decoding not supported")
}

func (s *VideoSource) Close() error {
	return nil
}
