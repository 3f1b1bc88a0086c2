// This file is part of glvideo.
//
// glvideo is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// glvideo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with glvideo.  If not, see <https://www.gnu.org/licenses/>.


// Package limiter provides a rough and ready way of limiting events to a fixed
// rate. The play command uses it to present fields at the field rate of the
// video when the swap interval cannot be controlled.
//
// A new FPSLimiter can be created with (error handling removed for clarity):
//
//	fps, _ := limiter.NewFPSLimiter(50)
//	defer fps.Stop()
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		presentField()
//	}
package limiter

import (
	"sync/atomic"
	"time"

	"github.com/jetsetilly/glvideo/curated"
)

// InvalidRate is returned by NewFPSLimiter() and SetLimit().
const InvalidRate = "limiter: invalid rate (%v)"

// FPSLimiter will trigger every frames per second.
type FPSLimiter struct {
	framesPerSecond float64

	// duration of a single frame in nanoseconds. accessed by the ticker
	// goroutine
	period atomic.Int64

	tick chan bool
	quit chan bool
}

// NewFPSLimiter is the preferred method of initialisation for FPSLimiter type.
func NewFPSLimiter(framesPerSecond float64) (*FPSLimiter, error) {
	lim := &FPSLimiter{
		tick: make(chan bool),
		quit: make(chan bool),
	}
	if err := lim.SetLimit(framesPerSecond); err != nil {
		return nil, err
	}

	// run ticker concurrently. the sleep duration is adjusted every tick to
	// make up for time lost to the scheduler
	go func() {
		adjusted := time.Duration(lim.period.Load())
		t := time.Now()
		for {
			select {
			case lim.tick <- true:
			case <-lim.quit:
				return
			}

			time.Sleep(adjusted)
			nt := time.Now()
			period := time.Duration(lim.period.Load())
			adjusted -= nt.Sub(t) - period

			// don't let the adjustment run away after a long stall
			adjusted = max(0, min(adjusted, period))
			t = nt
		}
	}()

	return lim, nil
}

// SetLimit changes the limit at which the FPSLimiter waits.
func (lim *FPSLimiter) SetLimit(framesPerSecond float64) error {
	if framesPerSecond <= 0 {
		return curated.Errorf(InvalidRate, framesPerSecond)
	}
	lim.framesPerSecond = framesPerSecond
	lim.period.Store(int64(float64(time.Second) / framesPerSecond))
	return nil
}

// Limit returns the current rate.
func (lim *FPSLimiter) Limit() float64 {
	return lim.framesPerSecond
}

// Wait will block until trigger.
func (lim *FPSLimiter) Wait() {
	<-lim.tick
}

// HasWaited will return true if time has already elapsed and false it it is
// still yet to happen.
func (lim *FPSLimiter) HasWaited() bool {
	select {
	case <-lim.tick:
		return true
	default:
		// default case means that the channel receiving case doesn't block
		return false
	}
}

// Stop the ticker goroutine. Wait() must not be called after Stop().
func (lim *FPSLimiter) Stop() {
	close(lim.quit)
}
