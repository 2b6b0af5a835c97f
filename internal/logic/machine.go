package logic

// transitions is the complete feeding state machine. Feeding buttons force
// an absolute period; a timeout flips whichever period was active. Hungry
// states have no timeout entry.
var transitions = map[State]map[Trigger]State{
	HungryMorning: {
		TriggerFedPM: FullNight,
		TriggerFedAM: FullMorning,
	},
	HungryNight: {
		TriggerFedPM: FullNight,
		TriggerFedAM: FullMorning,
	},
	FullMorning: {
		TriggerTimeout: HungryNight,
		TriggerFedPM:   FullNight,
		TriggerFedAM:   FullMorning,
	},
	FullNight: {
		TriggerTimeout: HungryMorning,
		TriggerFedPM:   FullNight,
		TriggerFedAM:   FullMorning,
	},
}

// Next returns the state reached from s on trigger, and false if the
// trigger does not apply to s.
func Next(s State, trigger Trigger) (State, bool) {
	to, ok := transitions[s][trigger]
	return to, ok
}

// Machine holds the feeding state and the time elapsed in it.
type Machine struct {
	state     State
	threshold Threshold
	clock     *Accumulator
}

// NewMachine creates a machine in the startup state (hungry, morning).
func NewMachine(threshold Threshold, now Tick) *Machine {
	return &Machine{
		state:     HungryMorning,
		threshold: threshold,
		clock:     NewAccumulator(now),
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Elapsed returns the time accumulated since the last transition.
func (m *Machine) Elapsed() Elapsed {
	return m.clock.Elapsed()
}

// Threshold returns the configured feeding threshold.
func (m *Machine) Threshold() Threshold {
	return m.threshold
}

// Advance runs the accumulator while the pet is full. It returns true when
// a second was counted.
func (m *Machine) Advance(now Tick) bool {
	if m.state.Satiety() != Full {
		return false
	}
	return m.clock.Advance(now)
}

// TimedOut reports whether the timeout guard currently holds.
func (m *Machine) TimedOut() bool {
	e := m.clock.Elapsed()
	return m.state.Satiety() == Full &&
		e.Hours >= m.threshold.Hours &&
		e.Minutes >= m.threshold.Minutes
}

// Fire applies trigger. Elapsed time is reset on every transition. Returns
// the event and true, or false if the trigger does not apply.
func (m *Machine) Fire(trigger Trigger, now Tick) (Event, bool) {
	to, ok := Next(m.state, trigger)
	if !ok {
		return Event{}, false
	}
	event := Event{
		Tick:    now,
		Trigger: trigger,
		From:    m.state,
		To:      to,
		Elapsed: m.clock.Elapsed(),
	}
	m.state = to
	m.clock.Reset(now)
	return event, true
}
