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

package stream

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/juju/ratelimit"
)

// AckByte is written by the player after each rendered frame when ack
// pacing is in use.
const AckByte = 'A'

const DefaultAckTimeout = 5 * time.Second

var ErrAckTimeout = errors.New("timed out waiting for ack")

// UnexpectedAckError is returned when the player answers with anything
// other than AckByte.
type UnexpectedAckError struct {
	Frame int
	Got   byte
}

func (e *UnexpectedAckError) Error() string {
	return fmt.Sprintf("unexpected ack at frame %d: %q", e.Frame, e.Got)
}

// Pacer is called after each record is sent and blocks until the next
// one may go out. frame is the number of records sent so far.
type Pacer interface {
	Pace(frame int) error
}

// Pacers runs each pacer in turn.
type Pacers []Pacer

func (ps Pacers) Pace(frame int) error {
	for _, p := range ps {
		if err := p.Pace(frame); err != nil {
			return err
		}
	}
	return nil
}

// AckPacer waits for the player to acknowledge each frame. A missing or
// wrong ack is fatal; there is no retry.
type AckPacer struct {
	conn    net.Conn
	timeout time.Duration
	buf     [1]byte
}

func NewAckPacer(conn net.Conn, timeout time.Duration) *AckPacer {
	return &AckPacer{
		conn:    conn,
		timeout: timeout,
	}
}

func (p *AckPacer) Pace(frame int) error {
	if p.timeout > 0 {
		if err := p.conn.SetReadDeadline(time.Now().Add(p.timeout)); err != nil {
			return err
		}
	}
	if _, err := io.ReadFull(p.conn, p.buf[:]); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w at frame %d", ErrAckTimeout, frame)
		}
		return fmt.Errorf("reading ack at frame %d: %w", frame, err)
	}
	if p.buf[0] != AckByte {
		return &UnexpectedAckError{Frame: frame, Got: p.buf[0]}
	}
	return nil
}

// RatePacer limits sending to a fixed frame rate without any feedback
// from the player.
type RatePacer struct {
	bucket *ratelimit.Bucket
}

func NewRatePacer(fps float64) *RatePacer {
	return NewRatePacerWithClock(fps, new(realClock))
}

func NewRatePacerWithClock(fps float64, clock ratelimit.Clock) *RatePacer {
	bucket := ratelimit.NewBucketWithRateAndClock(fps, 1, clock)
	// Start empty so the first frame is followed by a full interval.
	bucket.TakeAvailable(1)
	return &RatePacer{bucket: bucket}
}

func (p *RatePacer) Pace(frame int) error {
	p.bucket.Wait(1)
	return nil
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
