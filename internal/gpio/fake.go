package gpio

import (
	"errors"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// FakePanel is a test double that returns scripted button levels and
// records LED writes.
type FakePanel struct {
	// Samples contains scripted button levels to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Writes records every Write call in order.
	Writes []logic.Indicators

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error

	// WriteError, if set, will be returned by Write()
	WriteError error
}

// Sample represents a single raw reading of both buttons.
type Sample struct {
	AM logic.Level
	PM logic.Level
}

// Released is a sample with neither button pressed.
var Released = Sample{AM: logic.High, PM: logic.High}

// NewFakePanel creates a FakePanel with the given samples.
func NewFakePanel(samples []Sample) *FakePanel {
	return &FakePanel{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakePanel) Read() (logic.Level, logic.Level, error) {
	if f.ReadError != nil {
		return logic.High, logic.High, f.ReadError
	}

	if len(f.Samples) == 0 {
		return logic.High, logic.High, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.AM, sample.PM, nil
}

// Write records the LED levels.
func (f *FakePanel) Write(ind logic.Indicators) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, ind)
	return nil
}

// Last returns the most recent LED write, or all-off if nothing was written.
func (f *FakePanel) Last() logic.Indicators {
	if len(f.Writes) == 0 {
		return logic.Indicators{}
	}
	return f.Writes[len(f.Writes)-1]
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the panel to the beginning of samples and clears writes.
func (f *FakePanel) Reset() {
	f.index = 0
	f.Writes = nil
	f.Closed = false
}
