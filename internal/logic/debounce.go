package logic

// DefaultDebounceMs is the debounce interval used for both buttons.
const DefaultDebounceMs = 5

// Debouncer turns a raw, noisy button level into one-shot press edges.
// A level change is accepted only after the raw level has been stable for
// the debounce interval.
type Debouncer struct {
	interval Tick
	pressed  Level

	raw      Level // last raw level seen
	rawSince Tick  // when raw last changed
	stable   Level // debounced level
	edge     bool  // press edge from the latest Update, cleared by Pressed
	primed   bool
}

// NewDebouncer creates a debouncer that treats pressedLevel as "pressed".
// The input is assumed released until the first Update.
func NewDebouncer(intervalMs Tick, pressedLevel Level) *Debouncer {
	return &Debouncer{
		interval: intervalMs,
		pressed:  pressedLevel,
		raw:      !pressedLevel,
		stable:   !pressedLevel,
	}
}

// Update feeds one raw sample. It must be called once per poll.
// The first sample is taken as the debounced level, so a button held
// down at startup does not register as a press.
func (d *Debouncer) Update(level Level, now Tick) {
	d.edge = false

	if !d.primed {
		d.primed = true
		d.raw = level
		d.stable = level
		d.rawSince = now
		return
	}

	// Clock wrapped: restart the stability window from here.
	if now < d.rawSince {
		d.rawSince = now
	}

	if level != d.raw {
		d.raw = level
		d.rawSince = now
		return
	}

	if level == d.stable || now-d.rawSince < d.interval {
		return
	}

	d.stable = level
	d.edge = level == d.pressed
}

// Pressed reports the press edge detected by the latest Update. It returns
// true at most once per Update.
func (d *Debouncer) Pressed() bool {
	if !d.edge {
		return false
	}
	d.edge = false
	return true
}

// IsPressed returns the debounced level as a pressed/released value.
func (d *Debouncer) IsPressed() bool {
	return d.stable == d.pressed
}
