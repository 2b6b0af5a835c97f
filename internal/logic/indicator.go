package logic

// DefaultBlinkPeriodMs is the full on/off cycle of a hungry LED.
const DefaultBlinkPeriodMs = 500

// Indicators is the level of each of the four LEDs.
type Indicators struct {
	AMFed    bool
	AMHungry bool
	PMFed    bool
	PMHungry bool
}

// Lit returns how many LEDs are on.
func (i Indicators) Lit() int {
	n := 0
	for _, on := range []bool{i.AMFed, i.AMHungry, i.PMFed, i.PMHungry} {
		if on {
			n++
		}
	}
	return n
}

// Render maps a state and blink phase to LED levels. At most one LED is lit:
// the fed LED of the active period when full, or its hungry LED when hungry
// and the blink phase is on.
func Render(s State, blink bool) Indicators {
	var ind Indicators

	switch s {
	case FullMorning:
		ind.AMFed = true
	case HungryMorning:
		ind.AMHungry = blink
	case FullNight:
		ind.PMFed = true
	case HungryNight:
		ind.PMHungry = blink
	}
	return ind
}

// BlinkPhase returns the blink phase at now: on for the first half period,
// off for the second, and so on.
func BlinkPhase(now Tick, halfPeriodMs Tick) bool {
	if halfPeriodMs == 0 {
		return true
	}
	return (now/halfPeriodMs)%2 == 0
}
