// Package clock provides the device's free-running millisecond counter.
package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// DefaultBits matches a 32-bit millis() counter, which wraps after ~49.7 days.
const DefaultBits = 32

// Source reads the millisecond clock.
type Source interface {
	Millis() logic.Tick
}

// MaxForBits returns the largest tick a counter of the given width can hold.
func MaxForBits(bits int) (logic.Tick, error) {
	if bits < 1 || bits > 64 {
		return 0, fmt.Errorf("clock width %d bits out of range [1,64]", bits)
	}
	if bits == 64 {
		return ^logic.Tick(0), nil
	}
	return logic.Tick(1)<<bits - 1, nil
}

// Wrapping counts milliseconds since it was created and wraps to zero after
// Max, like a fixed-width hardware counter.
type Wrapping struct {
	Max   logic.Tick
	start time.Time
	now   func() time.Time
}

// NewWrapping starts a counter at zero. now is usually time.Now.
func NewWrapping(max logic.Tick, now func() time.Time) *Wrapping {
	return &Wrapping{Max: max, start: now(), now: now}
}

// Millis returns the elapsed milliseconds modulo Max+1.
func (w *Wrapping) Millis() logic.Tick {
	ms := logic.Tick(w.now().Sub(w.start).Milliseconds())
	if w.Max == ^logic.Tick(0) {
		return ms
	}
	return ms % (w.Max + 1)
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now logic.Tick
	Max logic.Tick
}

// NewFake creates a fake clock at start that wraps after max.
func NewFake(start, max logic.Tick) *Fake {
	return &Fake{now: start, Max: max}
}

// Millis returns the current tick.
func (f *Fake) Millis() logic.Tick {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by ms, wrapping past Max.
func (f *Fake) Advance(ms logic.Tick) logic.Tick {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Max == ^logic.Tick(0) {
		f.now += ms
		return f.now
	}
	f.now = (f.now + ms) % (f.Max + 1)
	return f.now
}

// Set moves the clock to t.
func (f *Fake) Set(t logic.Tick) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}
