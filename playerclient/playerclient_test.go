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

package playerclient

import (
	"errors"
	"testing"

	"github.com/godbus/dbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/lcd-video/receiver"
)

type fakeObj struct {
	method string
	call   *dbus.Call
}

func (o *fakeObj) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	o.method = method
	return o.call
}

func TestGetStatus(t *testing.T) {
	obj := &fakeObj{call: &dbus.Call{Body: []interface{}{"faulted", int32(17), "frame 17: i2c nack"}}}

	s, err := getStatus(obj)
	require.NoError(t, err)
	assert.Equal(t, "org.cacophony.lcdplayer.Status", obj.method)
	assert.Equal(t, Status{State: receiver.StateFaulted, Frames: 17, Error: "frame 17: i2c nack"}, s)
	assert.True(t, s.State.Terminal())
	assert.Equal(t, "faulted after 17 frames: frame 17: i2c nack", s.String())
}

func TestGetStatusHealthy(t *testing.T) {
	obj := &fakeObj{call: &dbus.Call{Body: []interface{}{"playing", int32(250), ""}}}

	s, err := getStatus(obj)
	require.NoError(t, err)
	assert.Equal(t, "playing, 250 frames", s.String())
}

func TestGetStatusErrors(t *testing.T) {
	_, err := getStatus(&fakeObj{call: &dbus.Call{Err: errors.New("no such name")}})
	assert.EqualError(t, err, "no such name")

	_, err = getStatus(&fakeObj{call: &dbus.Call{Body: []interface{}{"sleeping", int32(0), ""}}})
	assert.Error(t, err)
}
