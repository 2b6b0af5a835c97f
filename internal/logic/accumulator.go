package logic

import "fmt"

// Elapsed is time since the last transition, counted from the device clock.
type Elapsed struct {
	Seconds int
	Minutes int
	Hours   int
}

func (e Elapsed) String() string {
	return fmt.Sprintf("%d:%d:%d", e.Hours, e.Minutes, e.Seconds)
}

// Accumulator converts a wrapping millisecond clock into Elapsed.
type Accumulator struct {
	last    Tick
	elapsed Elapsed
}

// NewAccumulator creates an accumulator whose first second starts at now.
func NewAccumulator(now Tick) *Accumulator {
	return &Accumulator{last: now}
}

// Advance counts at most one second per call. The recorded tick moves to now
// rather than by a fixed 1000ms, so polls slower than a second lose time.
// When the clock has wrapped the recorded tick is resynced and nothing is
// counted. Returns true if a second was counted.
func (a *Accumulator) Advance(now Tick) bool {
	if now < a.last {
		a.last = now
		return false
	}
	if now-a.last < 1000 {
		return false
	}

	a.last = now
	a.elapsed.Seconds++
	if a.elapsed.Seconds == 60 {
		a.elapsed.Seconds = 0
		a.elapsed.Minutes++
	}
	if a.elapsed.Minutes == 60 {
		a.elapsed.Minutes = 0
		a.elapsed.Hours++
	}
	return true
}

// Reset zeroes the counters and restarts the current second at now.
func (a *Accumulator) Reset(now Tick) {
	a.elapsed = Elapsed{}
	a.last = now
}

// Elapsed returns the current counters.
func (a *Accumulator) Elapsed() Elapsed {
	return a.elapsed
}

// Last returns the recorded clock sample.
func (a *Accumulator) Last() Tick {
	return a.last
}
