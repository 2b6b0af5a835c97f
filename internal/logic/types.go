// Package logic contains pure business logic for the pet feeding indicator.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable, either as a millisecond Tick or a time.Time.
package logic

import (
	"fmt"
	"time"
)

// Tick is a raw sample of the millisecond clock. The clock has a finite width
// and wraps back to zero, so a Tick may be smaller than an earlier one.
type Tick uint64

// Level is the electrical level of a digital line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "HIGH"
	}
	return "LOW"
}

// Satiety is whether the pet has been fed for the active period.
type Satiety string

const (
	Hungry Satiety = "HUNGRY"
	Full   Satiety = "FULL"
)

// Period is the active half of the feeding cycle.
type Period string

const (
	Morning Period = "MORNING"
	Night   Period = "NIGHT"
)

// State is the combined feeding state. Satiety and period only ever change
// together, through the transition table in machine.go.
type State int

const (
	HungryMorning State = iota
	FullMorning
	HungryNight
	FullNight
)

// AllStates lists every State in declaration order.
var AllStates = []State{HungryMorning, FullMorning, HungryNight, FullNight}

// Satiety returns the satiety half of the state.
func (s State) Satiety() Satiety {
	if s == FullMorning || s == FullNight {
		return Full
	}
	return Hungry
}

// Period returns the period half of the state.
func (s State) Period() Period {
	if s == HungryNight || s == FullNight {
		return Night
	}
	return Morning
}

func (s State) String() string {
	return fmt.Sprintf("%s/%s", s.Satiety(), s.Period())
}

// Trigger is the cause of a state transition.
type Trigger string

const (
	TriggerTimeout Trigger = "TIMEOUT"
	TriggerFedPM   Trigger = "FED_PM"
	TriggerFedAM   Trigger = "FED_AM"
)

// Threshold is how long a full pet stays full.
type Threshold struct {
	Hours   int
	Minutes int
}

// Event is a state transition to be logged and published.
type Event struct {
	Timestamp time.Time
	Tick      Tick
	Trigger   Trigger
	From      State
	To        State
	// Elapsed is the time accumulated before the transition reset it.
	Elapsed Elapsed
}

// Input is a single poll of both buttons.
type Input struct {
	AM   Level
	PM   Level
	Tick Tick
	// Time is the wall clock, used only to stamp events.
	Time time.Time
}

// Output is the result of processing one Input.
type Output struct {
	Events []Event
	// Indicators is the current LED state.
	Indicators Indicators
	// Render is true when Indicators must be written to the outputs.
	Render bool
	// Ticked is true when the accumulator counted a second.
	Ticked bool
}

// EventCounts tracks the number of each transition since startup.
type EventCounts struct {
	FedAM    int
	FedPM    int
	Timeouts int
}
