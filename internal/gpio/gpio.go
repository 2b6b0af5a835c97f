// Package gpio provides button input and LED output with hardware abstraction.
// The real implementations use the Linux GPIO character device (cdev) or
// memory-mapped registers (rpio). The terminal implementation draws the LEDs
// and reads keys instead. The fake implementations allow testing without
// hardware.
package gpio

import (
	"fmt"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// Reader reads the raw button levels.
type Reader interface {
	// Read returns the raw electrical levels of the AM and PM buttons.
	// Buttons pull to ground, so logic.Low means pressed.
	Read() (am, pm logic.Level, err error)

	// Close releases GPIO resources.
	Close() error
}

// Writer drives the four LEDs.
type Writer interface {
	// Write sets every LED to the given levels.
	Write(ind logic.Indicators) error

	// Close turns the LEDs off and releases GPIO resources.
	Close() error
}

// Panel is the complete front panel: two buttons and four LEDs.
type Panel interface {
	Reader
	Writer
}

// Pin definitions (BCM numbering)
const (
	DefaultPinAMFed    = 17
	DefaultPinAMHungry = 27
	DefaultPinPMFed    = 22
	DefaultPinPMHungry = 23

	DefaultPinAMButton = 5
	DefaultPinPMButton = 6
)

// Pins maps each LED and button to a BCM line offset.
type Pins struct {
	AMFed    int
	AMHungry int
	PMFed    int
	PMHungry int
	AMButton int
	PMButton int
}

// DefaultPins returns the stock wiring.
func DefaultPins() Pins {
	return Pins{
		AMFed:    DefaultPinAMFed,
		AMHungry: DefaultPinAMHungry,
		PMFed:    DefaultPinPMFed,
		PMHungry: DefaultPinPMHungry,
		AMButton: DefaultPinAMButton,
		PMButton: DefaultPinPMButton,
	}
}

// LEDs returns the LED offsets in Levels order.
func (p Pins) LEDs() []int {
	return []int{p.AMFed, p.AMHungry, p.PMFed, p.PMHungry}
}

// Buttons returns the AM and PM button offsets.
func (p Pins) Buttons() []int {
	return []int{p.AMButton, p.PMButton}
}

// Validate checks that no line is used twice.
func (p Pins) Validate() error {
	seen := make(map[int]string)
	named := []struct {
		name string
		pin  int
	}{
		{"am-fed", p.AMFed},
		{"am-hungry", p.AMHungry},
		{"pm-fed", p.PMFed},
		{"pm-hungry", p.PMHungry},
		{"am-button", p.AMButton},
		{"pm-button", p.PMButton},
	}
	for _, n := range named {
		if n.pin < 0 {
			return fmt.Errorf("pin %s: negative offset %d", n.name, n.pin)
		}
		if other, ok := seen[n.pin]; ok {
			return fmt.Errorf("pin %d used by both %s and %s", n.pin, other, n.name)
		}
		seen[n.pin] = n.name
	}
	return nil
}

// Levels converts indicators to line values in Pins.LEDs order (1 = lit).
func Levels(ind logic.Indicators) []int {
	out := make([]int, 4)
	for i, on := range []bool{ind.AMFed, ind.AMHungry, ind.PMFed, ind.PMHungry} {
		if on {
			out[i] = 1
		}
	}
	return out
}

func levelOf(raw int) logic.Level {
	if raw == 0 {
		return logic.Low
	}
	return logic.High
}
