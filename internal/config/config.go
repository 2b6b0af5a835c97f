// Package config holds the daemon configuration. Values are fixed at startup
// from flags; nothing here changes at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/sweeney/pet-feeder/internal/clock"
	"github.com/sweeney/pet-feeder/internal/gpio"
	"github.com/sweeney/pet-feeder/internal/logic"
)

// Backends accepted by -backend.
const (
	BackendCdev = "cdev"
	BackendRpio = "rpio"
	BackendTerm = "term"
)

// DefaultEnvFile is where pi-helper writes network state.
const DefaultEnvFile = "/run/pi-helper.env"

// Config is the complete daemon configuration.
type Config struct {
	FeedHours   int           `validate:"gte=0"`
	FeedMinutes int           `validate:"gte=0,lte=59"`
	Blink       time.Duration `validate:"gte=2ms"`
	Debounce    time.Duration `validate:"gte=0"`
	Poll        time.Duration `validate:"gt=0"`
	Heartbeat   time.Duration `validate:"gte=0"`
	TickBits    int           `validate:"gte=12,lte=64"`

	Backend string    `validate:"oneof=cdev rpio term"`
	Chip    string    `validate:"required_if=Backend cdev"`
	Pins    gpio.Pins `validate:"-"`

	Broker  string
	HTTP    string
	EnvFile string
	Verbose bool
}

// Default returns the stock configuration.
func Default() Config {
	s := logic.DefaultSettings()
	return Config{
		FeedHours:   s.Threshold.Hours,
		FeedMinutes: s.Threshold.Minutes,
		Blink:       time.Duration(s.BlinkPeriodMs) * time.Millisecond,
		Debounce:    time.Duration(s.DebounceMs) * time.Millisecond,
		Poll:        time.Millisecond,
		Heartbeat:   15 * time.Minute,
		TickBits:    clock.DefaultBits,
		Backend:     BackendCdev,
		Chip:        "gpiochip0",
		Pins:        gpio.DefaultPins(),
		Broker:      "tcp://192.168.1.200:1883",
		HTTP:        ":80",
		EnvFile:     DefaultEnvFile,
	}
}

var validate = validator.New()

// Validate checks every field and returns all problems in one error.
func (c Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate config: %w", err)
		}
		for _, e := range verrs {
			errs = append(errs, describe(e))
		}
	}
	if err := c.Pins.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func describe(e validator.FieldError) string {
	field := strings.ToLower(e.Field())
	switch e.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, e.Param())
	case "required_if":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Settings converts the config to device settings.
func (c Config) Settings() logic.Settings {
	return logic.Settings{
		Threshold:     logic.Threshold{Hours: c.FeedHours, Minutes: c.FeedMinutes},
		BlinkPeriodMs: logic.Tick(c.Blink.Milliseconds()),
		DebounceMs:    logic.Tick(c.Debounce.Milliseconds()),
	}
}

// TickMax returns the largest value of the device clock.
func (c Config) TickMax() logic.Tick {
	max, err := clock.MaxForBits(c.TickBits)
	if err != nil {
		return ^logic.Tick(0)
	}
	return max
}

// LoadEnvFile loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
