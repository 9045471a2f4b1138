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

// Package playerclient queries a running lcd-player over D-Bus.
package playerclient

import (
	"fmt"

	"github.com/godbus/dbus"

	"github.com/TheCacophonyProject/lcd-video/receiver"
)

const (
	dbusPath   = "/org/cacophony/lcdplayer"
	dbusDest   = "org.cacophony.lcdplayer"
	methodBase = "org.cacophony.lcdplayer"
)

type Status struct {
	State  receiver.State
	Frames int
	// Error is the fault text, empty while the player is healthy.
	Error string
}

func (s Status) String() string {
	if s.Error != "" {
		return fmt.Sprintf("%s after %d frames: %s", s.State, s.Frames, s.Error)
	}
	return fmt.Sprintf("%s, %d frames", s.State, s.Frames)
}

type caller interface {
	Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

func getDbusObj() (dbus.BusObject, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	obj := conn.Object(dbusDest, dbusPath)
	return obj, nil
}

// GetStatus asks the player for its current state.
func GetStatus() (Status, error) {
	obj, err := getDbusObj()
	if err != nil {
		return Status{}, err
	}
	return getStatus(obj)
}

func getStatus(obj caller) (Status, error) {
	var (
		state  string
		frames int32
		errStr string
	)
	if err := obj.Call(methodBase+".Status", 0).Store(&state, &frames, &errStr); err != nil {
		return Status{}, err
	}
	s, err := receiver.ParseState(state)
	if err != nil {
		return Status{}, err
	}
	return Status{State: s, Frames: int(frames), Error: errStr}, nil
}
