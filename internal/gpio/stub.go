//go:build !linux

package gpio

import (
	"errors"

	"github.com/sweeney/pet-feeder/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

// NewRealPanel returns an error on non-Linux platforms.
func NewRealPanel(chipName string, pins Pins) (*RealPanel, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealPanel) Read() (logic.Level, logic.Level, error) {
	return logic.High, logic.High, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (r *RealPanel) Write(ind logic.Indicators) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealPanel) Close() error {
	return nil
}

// RpioPanel is not available on non-Linux platforms.
type RpioPanel struct{}

// NewRpioPanel returns an error on non-Linux platforms.
func NewRpioPanel(pins Pins) (*RpioPanel, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RpioPanel) Read() (logic.Level, logic.Level, error) {
	return logic.High, logic.High, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (r *RpioPanel) Write(ind logic.Indicators) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RpioPanel) Close() error {
	return nil
}
