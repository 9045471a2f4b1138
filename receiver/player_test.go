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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/lcd-video/display"
)

type testConn struct {
	io.Reader
	acks     bytes.Buffer
	writeErr error
}

func (c *testConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.acks.Write(p)
}

type testLED struct {
	states []bool
	err    error
}

func (l *testLED) Set(on bool) error {
	l.states = append(l.states, on)
	return l.err
}

func (l *testLED) last() bool {
	return l.states[len(l.states)-1]
}

type testListener struct {
	states []State
	frames []int
}

func (l *testListener) FrameRendered(frames int) {
	l.frames = append(l.frames, frames)
}

func (l *testListener) StateChanged(status Status) {
	l.states = append(l.states, status.State)
}

type testPlayer struct {
	*Player
	led      *testLED
	listener *testListener
	reclaims int
	holds    []time.Duration
}

func newTestPlayer(conf Config, d display.Display) *testPlayer {
	tp := &testPlayer{
		led:      new(testLED),
		listener: new(testListener),
	}
	tp.Player = NewPlayer(conf, d, tp.led, tp.listener)
	tp.Player.reclaim = func() { tp.reclaims++ }
	tp.Player.sleep = func(d time.Duration) { tp.holds = append(tp.holds, d) }
	return tp
}

func lines(mem *display.Memory) []string {
	return []string{
		strings.TrimRight(mem.Line(0), " "),
		strings.TrimRight(mem.Line(1), " "),
	}
}

func TestPlayAckPaced(t *testing.T) {
	mem := display.NewMemory(16, 2)
	p := newTestPlayer(DefaultConfig(), mem)
	conn := &testConn{Reader: bytes.NewReader(makeRecords(3))}

	require.NoError(t, p.Waiting())
	err := p.Play(conn)

	assert.True(t, errors.Is(err, ErrDisconnected), "got %v", err)
	assert.Equal(t, "AAA", conn.acks.String())
	assert.Equal(t, []string{"Disconnected", ""}, lines(mem))
	assert.True(t, p.led.last())
	assert.Equal(t, []time.Duration{DefaultConnectedHold}, p.holds)

	status := p.Status()
	assert.Equal(t, StateDisconnected, status.State)
	assert.Equal(t, 3, status.Frames)
	assert.Equal(t, err, status.Err)

	assert.Equal(t, []State{StateWaiting, StatePlaying, StateDisconnected}, p.listener.states)
	assert.Equal(t, []int{1, 2, 3}, p.listener.frames)
}

func TestPlayDelayPacedSendsNoAck(t *testing.T) {
	conf := DefaultConfig()
	conf.AckPaced = false
	p := newTestPlayer(conf, display.NewMemory(16, 2))
	conn := &testConn{Reader: bytes.NewReader(makeRecords(4))}

	p.Play(conn)
	assert.Equal(t, 0, conn.acks.Len())
	assert.Equal(t, 4, p.Status().Frames)
}

func TestPlayAckFollowsRender(t *testing.T) {
	mem := display.NewMemory(16, 2)
	p := newTestPlayer(DefaultConfig(), mem)

	// The ack for a frame must only be written once its last character is
	// on the display.
	conn := &orderConn{Reader: bytes.NewReader(makeRecords(2)), mem: mem}
	p.Play(conn)
	assert.Equal(t, []int{1, 2}, conn.charsAtAck)
}

type orderConn struct {
	io.Reader
	mem        *display.Memory
	charsAtAck []int
}

func (c *orderConn) Write(p []byte) (int, error) {
	chars := 0
	for _, op := range c.mem.Ops {
		if op == "char:7" {
			chars++
		}
	}
	c.charsAtAck = append(c.charsAtAck, chars)
	return len(p), nil
}

func TestPlayReclaimsPeriodically(t *testing.T) {
	p := newTestPlayer(DefaultConfig(), display.NewMemory(16, 2))
	p.Play(&testConn{Reader: bytes.NewReader(makeRecords(250))})
	assert.Equal(t, 2, p.reclaims)

	conf := DefaultConfig()
	conf.ReclaimInterval = 0
	p = newTestPlayer(conf, display.NewMemory(16, 2))
	p.Play(&testConn{Reader: bytes.NewReader(makeRecords(250))})
	assert.Equal(t, 0, p.reclaims)
}

func TestPlayDisplayFault(t *testing.T) {
	d := &faultyDisplay{Memory: display.NewMemory(16, 2), failChar: 10}
	p := newTestPlayer(DefaultConfig(), d)
	conn := &testConn{Reader: bytes.NewReader(makeRecords(3))}

	err := p.Play(conn)

	var fault *FaultError
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, 1, fault.Frame)
	assert.EqualError(t, fault.Err, "char write failed")
	assert.Equal(t, []string{"Error F1", "char write faile"}, lines(d.Memory))
	assert.Equal(t, "A", conn.acks.String())
	assert.True(t, p.led.last())
	assert.Equal(t, StateFaulted, p.Status().State)
}

func TestPlayRecoversPanic(t *testing.T) {
	d := &faultyDisplay{Memory: display.NewMemory(16, 2), panicGlyph: true}
	p := newTestPlayer(DefaultConfig(), d)

	err := p.Play(&testConn{Reader: bytes.NewReader(makeRecords(1))})

	var fault *FaultError
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, 0, fault.Frame)
	assert.EqualError(t, fault.Err, "panic: bus gone")
	assert.Equal(t, []string{"Error F0", "panic: bus gone"}, lines(d.Memory))
}

func TestPlayAckWriteFault(t *testing.T) {
	p := newTestPlayer(DefaultConfig(), display.NewMemory(16, 2))
	conn := &testConn{
		Reader:   bytes.NewReader(makeRecords(2)),
		writeErr: errors.New("broken pipe"),
	}

	err := p.Play(conn)
	assert.EqualError(t, err, "frame 0: sending ack: broken pipe")
	assert.Equal(t, StateFaulted, p.Status().State)
}

func TestPlayReadFault(t *testing.T) {
	mem := display.NewMemory(16, 2)
	p := newTestPlayer(DefaultConfig(), mem)
	conn := &testConn{Reader: io.MultiReader(
		bytes.NewReader(makeRecords(1)),
		errReader{errors.New("reset")},
	)}

	err := p.Play(conn)

	var fault *FaultError
	require.True(t, errors.As(err, &fault), "got %v", err)
	assert.Equal(t, 1, fault.Frame)
	assert.Equal(t, []string{"Error F1", "receiving frame:"}, lines(mem))
}

type errReader struct {
	err error
}

func (r errReader) Read(p []byte) (int, error) {
	return 0, r.err
}

func TestPlayIsTerminal(t *testing.T) {
	p := newTestPlayer(DefaultConfig(), display.NewMemory(16, 2))
	first := p.Play(&testConn{Reader: bytes.NewReader(makeRecords(1))})
	require.Error(t, first)

	r := &chunkReader{data: makeRecords(5)}
	second := p.Play(&testConn{Reader: r})
	assert.Equal(t, first, second)
	assert.Zero(t, r.reads)
	assert.Equal(t, 1, p.Status().Frames)
}

func TestLEDFollowsFrames(t *testing.T) {
	conf := DefaultConfig()
	conf.AckPaced = false
	p := newTestPlayer(conf, display.NewMemory(16, 2))
	p.led.err = errors.New("gpio busy")

	p.Play(&testConn{Reader: bytes.NewReader(makeRecords(2))})
	assert.Equal(t, []bool{true, false, true, false, true}, p.led.states)
}

func TestShowAddress(t *testing.T) {
	mem := display.NewMemory(16, 2)
	p := newTestPlayer(DefaultConfig(), mem)

	require.NoError(t, p.Connecting())
	assert.Equal(t, []string{"Connecting...", ""}, lines(mem))
	assert.Equal(t, StateStarting, p.Status().State)

	require.NoError(t, p.ShowAddress("192.168.1.50"))
	assert.Equal(t, []string{"IP:", "192.168.1.50"}, lines(mem))

	require.NoError(t, p.Waiting())
	assert.Equal(t, []string{"Waiting for", "connection..."}, lines(mem))
	assert.Equal(t, StateWaiting, p.Status().State)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "playing, 12 frames", Status{State: StatePlaying, Frames: 12}.String())
	assert.Equal(t,
		"disconnected after 3 frames: sender disconnected",
		Status{State: StateDisconnected, Frames: 3, Err: ErrDisconnected}.String())
	assert.Equal(t, "state(9)", State(9).String())

	for _, s := range []State{StateStarting, StateWaiting, StatePlaying, StateDisconnected, StateFaulted} {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseState("paused")
	assert.Error(t, err)

	assert.False(t, StatePlaying.Terminal())
	assert.True(t, StateFaulted.Terminal())
}

func TestAcceptOneClosesListener(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()

	go func() {
		c, err := net.Dial("tcp", addr)
		if err == nil {
			c.Close()
		}
	}()
	conn, err := AcceptOne(l)
	require.NoError(t, err)
	defer conn.Close()

	_, err = net.DialTimeout("tcp", addr, time.Second)
	assert.Error(t, err)
}

func TestFirstIPv4(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("fe80::1"), Mask: net.CIDRMask(64, 128)},
		&net.IPNet{IP: net.ParseIP("192.168.1.50"), Mask: net.CIDRMask(24, 32)},
	}
	ip, err := firstIPv4(addrs)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", ip)

	_, err = firstIPv4(addrs[:2])
	assert.Equal(t, ErrNoAddress, err)
}

func TestFaultErrorText(t *testing.T) {
	err := &FaultError{Frame: 4, Err: fmt.Errorf("loading glyph 2: %w", io.ErrClosedPipe)}
	assert.EqualError(t, err, "frame 4: loading glyph 2: io: read/write on closed pipe")
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}
