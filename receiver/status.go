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

package receiver

import "fmt"

type State int

const (
	StateStarting State = iota
	StateWaiting
	StatePlaying
	StateDisconnected
	StateFaulted
)

var stateNames = map[State]string{
	StateStarting:     "starting",
	StateWaiting:      "waiting",
	StatePlaying:      "playing",
	StateDisconnected: "disconnected",
	StateFaulted:      "faulted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the player can no longer make progress. Only a
// restart of the process leaves a terminal state.
func (s State) Terminal() bool {
	return s == StateDisconnected || s == StateFaulted
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown player state %q", name)
}

// Status is a snapshot of the player.
type Status struct {
	State  State
	Frames int
	Err    error
}

func (s Status) String() string {
	if s.Err != nil {
		return fmt.Sprintf("%s after %d frames: %v", s.State, s.Frames, s.Err)
	}
	return fmt.Sprintf("%s, %d frames", s.State, s.Frames)
}

// FaultError is a runtime failure while rendering a frame. Frame is the
// number of frames completed before the failure.
type FaultError struct {
	Frame int
	Err   error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
