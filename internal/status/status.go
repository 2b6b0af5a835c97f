// Package status provides a thread-safe status tracker for the pet-feeder daemon.
// It is written by the polling loop and read by HTTP handlers and MQTT heartbeats.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	FeedHours   int
	FeedMinutes int
	BlinkMs     int64
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Backend     string
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	BootID        string
	State         logic.State
	Elapsed       logic.Elapsed
	Indicators    logic.Indicators
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker in the startup state (HUNGRY/MORNING, AM
// hungry LED lit) with the given boot ID, start time and config.
func NewTracker(bootID string, startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			BootID:     bootID,
			State:      logic.HungryMorning,
			Indicators: logic.Render(logic.HungryMorning, true),
			StartTime:  startTime,
			Config:     cfg,
		},
		now: time.Now,
	}
}

// Update copies the device state. Called from runLoop on every poll that
// produced a change.
func (t *Tracker) Update(d *logic.Device) {
	t.mu.Lock()
	t.snap.State = d.State()
	t.snap.Elapsed = d.Elapsed()
	t.snap.Indicators = d.Indicators()
	t.snap.Counts = d.EventCountsSnapshot()
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
