//go:build linux

package gpio

import (
	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// RpioPanel drives the panel through /dev/gpiomem register access, for
// kernels without the GPIO character device.
type RpioPanel struct {
	am   rpio.Pin
	pm   rpio.Pin
	leds []rpio.Pin
}

// NewRpioPanel maps GPIO memory and configures the pins.
func NewRpioPanel(pins Pins) (*RpioPanel, error) {
	if err := pins.Validate(); err != nil {
		return nil, err
	}
	for _, p := range append(pins.LEDs(), pins.Buttons()...) {
		if p > 255 {
			return nil, errors.Errorf("pin %d out of range (rpio takes uint8 pin)", p)
		}
	}

	if err := rpio.Open(); err != nil {
		return nil, errors.Wrapf(err, "failed to open rpio for pins %v, %v", pins.Buttons(), pins.LEDs())
	}

	r := &RpioPanel{
		am: rpio.Pin(pins.AMButton),
		pm: rpio.Pin(pins.PMButton),
	}
	for _, b := range []rpio.Pin{r.am, r.pm} {
		b.Input()
		b.PullUp()
	}
	for _, p := range pins.LEDs() {
		led := rpio.Pin(p)
		led.Output()
		led.Low()
		r.leds = append(r.leds, led)
	}
	return r, nil
}

// Read returns the raw button levels.
func (r *RpioPanel) Read() (logic.Level, logic.Level, error) {
	return logic.Level(r.am.Read() == rpio.High), logic.Level(r.pm.Read() == rpio.High), nil
}

// Write drives the four LEDs.
func (r *RpioPanel) Write(ind logic.Indicators) error {
	for i, v := range Levels(ind) {
		if v == 1 {
			r.leds[i].High()
		} else {
			r.leds[i].Low()
		}
	}
	return nil
}

// Close turns the LEDs off and unmaps GPIO memory.
func (r *RpioPanel) Close() error {
	for _, led := range r.leds {
		led.Low()
	}
	if err := rpio.Close(); err != nil {
		return errors.Wrap(err, "close rpio")
	}
	return nil
}
