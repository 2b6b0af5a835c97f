// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// Topic is the MQTT topic for feeding events.
const Topic = "home/pet/feeder/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/pet/feeder/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a feeding event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Feeder FeederPayload `json:"feeder"`
}

// FeederPayload contains the feeding event details.
type FeederPayload struct {
	Timestamp string         `json:"timestamp"`
	Event     string         `json:"event"`
	Period    string         `json:"period"`
	Satiety   string         `json:"satiety"`
	Elapsed   ElapsedPayload `json:"elapsed"`
}

// ElapsedPayload is the time spent in the previous state.
type ElapsedPayload struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// FormatPayload creates the JSON payload for a feeding event.
// Period and satiety are those of the state entered.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Feeder: FeederPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Trigger),
			Period:    string(event.To.Period()),
			Satiety:   string(event.To.Satiety()),
			Elapsed: ElapsedPayload{
				Hours:   event.Elapsed.Hours,
				Minutes: event.Elapsed.Minutes,
				Seconds: event.Elapsed.Seconds,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NopPublisher discards everything. It is used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(logic.Event) error { return nil }

// PublishSystem discards the event.
func (NopPublisher) PublishSystem(SystemEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

// IsConnected always reports false.
func (NopPublisher) IsConnected() bool { return false }
