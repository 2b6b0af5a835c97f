package logic

import "time"

// Settings are the fixed parameters of a Device.
type Settings struct {
	Threshold     Threshold
	BlinkPeriodMs Tick
	DebounceMs    Tick
}

// DefaultSettings returns the stock configuration: hungry again after 6h,
// 500ms blink, 5ms debounce.
func DefaultSettings() Settings {
	return Settings{
		Threshold:     Threshold{Hours: 6},
		BlinkPeriodMs: DefaultBlinkPeriodMs,
		DebounceMs:    DefaultDebounceMs,
	}
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	State     State
	Elapsed   Elapsed
	Counts    EventCounts
}

// Device is the whole feeding indicator: two debounced buttons, the state
// machine and the LED renderer. It is owned by a single polling loop.
type Device struct {
	settings Settings
	machine  *Machine
	am       *Debouncer
	pm       *Debouncer

	blink      bool
	indicators Indicators
	counts     EventCounts

	startTime     time.Time
	lastHeartbeat time.Time
}

// NewDevice creates a device in the startup state. Buttons are pressed when
// pulled low. The blink phase starts on, so the AM hungry LED is lit.
func NewDevice(settings Settings, now Tick, startTime time.Time) *Device {
	d := &Device{
		settings:      settings,
		machine:       NewMachine(settings.Threshold, now),
		am:            NewDebouncer(settings.DebounceMs, Low),
		pm:            NewDebouncer(settings.DebounceMs, Low),
		blink:         true,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
	d.indicators = Render(d.machine.State(), d.blink)
	return d
}

// Process runs one iteration of the polling loop: advance elapsed time,
// check for timeout, apply button presses (PM then AM), then update the
// blink phase. Output.Render is set on any transition or blink phase change.
func (d *Device) Process(in Input) Output {
	var out Output

	out.Ticked = d.machine.Advance(in.Tick)

	if d.machine.TimedOut() {
		d.fire(TriggerTimeout, in, &out)
	}

	d.pm.Update(in.PM, in.Tick)
	d.am.Update(in.AM, in.Tick)

	if d.pm.Pressed() {
		d.fire(TriggerFedPM, in, &out)
	}
	// AM is checked last, so it wins if both buttons land in the same poll.
	if d.am.Pressed() {
		d.fire(TriggerFedAM, in, &out)
	}

	phase := BlinkPhase(in.Tick, d.settings.BlinkPeriodMs/2)
	if phase != d.blink {
		d.blink = phase
		d.render(&out)
	}

	out.Indicators = d.indicators
	return out
}

func (d *Device) fire(trigger Trigger, in Input, out *Output) {
	event, ok := d.machine.Fire(trigger, in.Tick)
	if !ok {
		return
	}
	event.Timestamp = in.Time
	switch trigger {
	case TriggerFedAM:
		d.counts.FedAM++
	case TriggerFedPM:
		d.counts.FedPM++
	case TriggerTimeout:
		d.counts.Timeouts++
	}
	out.Events = append(out.Events, event)
	d.render(out)
}

func (d *Device) render(out *Output) {
	d.indicators = Render(d.machine.State(), d.blink)
	out.Render = true
}

// State returns the current feeding state.
func (d *Device) State() State {
	return d.machine.State()
}

// Elapsed returns the time accumulated since the last transition.
func (d *Device) Elapsed() Elapsed {
	return d.machine.Elapsed()
}

// Indicators returns the LED levels from the latest render.
func (d *Device) Indicators() Indicators {
	return d.indicators
}

// Settings returns the device configuration.
func (d *Device) Settings() Settings {
	return d.settings
}

// EventCountsSnapshot returns a copy of the transition counters.
func (d *Device) EventCountsSnapshot() EventCounts {
	return d.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (d *Device) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		State:     d.machine.State(),
		Elapsed:   d.machine.Elapsed(),
		Counts:    d.counts,
	}
}
