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
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"sync"
	"time"

	"github.com/TheCacophonyProject/lcd-video/display"
	"github.com/TheCacophonyProject/lcd-video/glyph"
	"github.com/TheCacophonyProject/lcd-video/loglimiter"
	"github.com/TheCacophonyProject/lcd-video/stream"
)

const (
	DefaultReclaimInterval = 100
	DefaultConnectedHold   = time.Second
)

type Config struct {
	// AckPaced makes the player send an ack byte after every rendered frame.
	AckPaced bool
	// ReclaimInterval is the number of frames between memory reclamation
	// passes. Zero disables them.
	ReclaimInterval int
	Cols            int
	Rows            int
	// ConnectedHold is how long "Connected!" stays up before playback.
	ConnectedHold time.Duration
}

func DefaultConfig() Config {
	return Config{
		AckPaced:        true,
		ReclaimInterval: DefaultReclaimInterval,
		Cols:            display.DefaultCols,
		Rows:            display.DefaultRows,
		ConnectedHold:   DefaultConnectedHold,
	}
}

// Indicator is an activity light. It is on while a frame is being
// rendered and stays on once the player has stopped.
type Indicator interface {
	Set(on bool) error
}

// Listener is told about the player's progress. Both methods are called
// from the playback goroutine and must not block for long.
type Listener interface {
	FrameRendered(frames int)
	StateChanged(status Status)
}

// Player drives a display from a single connection. Once it reaches a
// terminal state it does no further protocol work.
type Player struct {
	conf     Config
	d        display.Display
	renderer *Renderer
	led      Indicator
	listener Listener
	ledLog   *loglimiter.LogLimiter
	ack      [1]byte

	reclaim func()
	sleep   func(time.Duration)

	mu     sync.Mutex
	status Status
}

// NewPlayer returns a Player for d. led and listener may be nil.
func NewPlayer(conf Config, d display.Display, led Indicator, listener Listener) *Player {
	if conf.Cols <= 0 {
		conf.Cols = display.DefaultCols
	}
	if conf.Rows <= 0 {
		conf.Rows = display.DefaultRows
	}
	return &Player{
		conf:     conf,
		d:        d,
		renderer: NewRenderer(d),
		led:      led,
		listener: listener,
		ledLog:   loglimiter.New(time.Minute),
		ack:      [1]byte{stream.AckByte},
		reclaim:  debug.FreeOSMemory,
		sleep:    time.Sleep,
		status:   Status{State: StateStarting},
	}
}

// Status returns a snapshot of the player's state. It is safe to call from
// any goroutine.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Connecting shows that the player is still looking for its network
// address.
func (p *Player) Connecting() error {
	return p.showStatus("Connecting...")
}

// ShowAddress puts the address clients should connect to on the display.
func (p *Player) ShowAddress(addr string) error {
	return p.showStatus("IP:\n" + addr)
}

// Waiting shows that the player is ready for a client.
func (p *Player) Waiting() error {
	p.setStatus(Status{State: StateWaiting})
	return p.showStatus("Waiting for\nconnection...")
}

// Play renders records from conn until the sender goes away or something
// fails. It always returns a non-nil error: ErrDisconnected when the
// sender closed the connection, or a *FaultError otherwise. Either way the
// player is left in a terminal state and later calls return the same
// error immediately.
func (p *Player) Play(conn io.ReadWriter) error {
	if status := p.Status(); status.State.Terminal() {
		return status.Err
	}

	p.setStatus(Status{State: StatePlaying})
	if p.conf.AckPaced {
		log.Println("ack pacing: acknowledging every frame")
	} else {
		log.Println("delay pacing: frames are not acknowledged")
	}

	if err := p.showStatus("Connected!"); err != nil {
		return p.fault(0, err)
	}
	p.sleep(p.conf.ConnectedHold)
	if err := p.d.Clear(); err != nil {
		return p.fault(0, err)
	}

	rx := NewReceiver(conn)
	frames := 0
	for {
		rec, err := rx.Next()
		if errors.Is(err, ErrDisconnected) {
			return p.disconnected(frames, err)
		} else if err != nil {
			return p.fault(frames, err)
		}

		if err := p.playFrame(rec, conn); err != nil {
			return p.fault(frames, err)
		}
		frames++

		p.mu.Lock()
		p.status.Frames = frames
		p.mu.Unlock()
		if p.listener != nil {
			p.listener.FrameRendered(frames)
		}
		if p.conf.ReclaimInterval > 0 && frames%p.conf.ReclaimInterval == 0 {
			p.reclaim()
		}
	}
}

func (p *Player) playFrame(rec *glyph.Record, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	p.setLED(true)
	if err := p.renderer.Render(rec); err != nil {
		return err
	}
	p.setLED(false)

	if p.conf.AckPaced {
		if _, err := w.Write(p.ack[:]); err != nil {
			return fmt.Errorf("sending ack: %w", err)
		}
	}
	return nil
}

func (p *Player) disconnected(frames int, err error) error {
	log.Printf("%d frames for this connection", frames)
	log.Print(err)
	p.setLED(true)
	if serr := p.showStatus("Disconnected"); serr != nil {
		log.Printf("showing disconnect: %v", serr)
	}
	p.setStatus(Status{State: StateDisconnected, Frames: frames, Err: err})
	return err
}

func (p *Player) fault(frames int, err error) error {
	log.Printf("%d frames for this connection", frames)
	ferr := &FaultError{Frame: frames, Err: err}
	log.Printf("fault: %v", ferr)
	p.setLED(true)
	if serr := p.showStatus(fmt.Sprintf("Error F%d\n%v", frames, err)); serr != nil {
		log.Printf("showing fault: %v", serr)
	}
	p.setStatus(Status{State: StateFaulted, Frames: frames, Err: ferr})
	return ferr
}

func (p *Player) setStatus(status Status) {
	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
	if p.listener != nil {
		p.listener.StateChanged(status)
	}
}

func (p *Player) showStatus(text string) error {
	return display.ShowStatus(p.d, p.conf.Cols, p.conf.Rows, text)
}

func (p *Player) setLED(on bool) {
	if p.led == nil {
		return
	}
	if err := p.led.Set(on); err != nil {
		p.ledLog.Printf("led: %v", err)
	}
}
