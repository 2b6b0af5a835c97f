//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// Consumer is the label shown for our lines in gpioinfo.
const Consumer = "pet-feeder"

// RealPanel drives actual hardware using the Linux GPIO character device.
type RealPanel struct {
	chip    *gpiocdev.Chip
	buttons *gpiocdev.Lines
	leds    *gpiocdev.Lines
}

// NewRealPanel requests the button and LED lines on the given chip.
func NewRealPanel(chipName string, pins Pins) (*RealPanel, error) {
	if err := pins.Validate(); err != nil {
		return nil, err
	}

	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer(Consumer))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons pull to ground, so idle is high.
	buttons, err := chip.RequestLines(pins.Buttons(), gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %v: %w", pins.Buttons(), err)
	}

	leds, err := chip.RequestLines(pins.LEDs(), gpiocdev.AsOutput(0, 0, 0, 0))
	if err != nil {
		buttons.Close()
		chip.Close()
		return nil, fmt.Errorf("request LED pins %v: %w", pins.LEDs(), err)
	}

	return &RealPanel{
		chip:    chip,
		buttons: buttons,
		leds:    leds,
	}, nil
}

// Read returns the raw button levels.
func (r *RealPanel) Read() (logic.Level, logic.Level, error) {
	values := make([]int, 2)
	if err := r.buttons.Values(values); err != nil {
		return logic.High, logic.High, fmt.Errorf("read buttons: %w", err)
	}
	return levelOf(values[0]), levelOf(values[1]), nil
}

// Write drives the four LEDs.
func (r *RealPanel) Write(ind logic.Indicators) error {
	if err := r.leds.SetValues(Levels(ind)); err != nil {
		return fmt.Errorf("write LEDs: %w", err)
	}
	return nil
}

// Close turns the LEDs off and releases GPIO resources.
// Lines are reconfigured to input with pull-down (matching Pi boot defaults)
// before closing to leave a clean state for shutdown/reboot.
func (r *RealPanel) Close() error {
	var errs []error

	if r.leds != nil {
		if err := r.leds.SetValues([]int{0, 0, 0, 0}); err != nil {
			errs = append(errs, fmt.Errorf("clear LEDs: %w", err))
		}
		if err := r.leds.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure LED pins: %w", err))
		}
		if err := r.leds.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close LED pins: %w", err))
		}
	}
	if r.buttons != nil {
		if err := r.buttons.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
		}
		if err := r.buttons.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
