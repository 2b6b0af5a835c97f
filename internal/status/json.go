package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	BootID        string       `json:"boot_id"`
	State         string       `json:"state"`
	Satiety       string       `json:"satiety"`
	Period        string       `json:"period"`
	Elapsed       ElapsedJSON  `json:"elapsed"`
	LEDs          LEDsJSON     `json:"leds"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ElapsedJSON is the time accumulated since the last transition.
type ElapsedJSON struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// LEDsJSON reports the level last written to each indicator.
type LEDsJSON struct {
	AMFed    bool `json:"am_fed"`
	AMHungry bool `json:"am_hungry"`
	PMFed    bool `json:"pm_fed"`
	PMHungry bool `json:"pm_hungry"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	FedAM    int `json:"fed_am"`
	FedPM    int `json:"fed_pm"`
	Timeouts int `json:"timeouts"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	FeedHours   int    `json:"feed_hours"`
	FeedMinutes int    `json:"feed_minutes"`
	BlinkMs     int64  `json:"blink_ms"`
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Backend     string `json:"backend"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	cfg := snap.Config
	inner := StatusInner{
		BootID:  snap.BootID,
		State:   snap.State.String(),
		Satiety: string(snap.State.Satiety()),
		Period:  string(snap.State.Period()),
		Elapsed: ElapsedJSON{
			Hours:   snap.Elapsed.Hours,
			Minutes: snap.Elapsed.Minutes,
			Seconds: snap.Elapsed.Seconds,
		},
		LEDs: LEDsJSON{
			AMFed:    snap.Indicators.AMFed,
			AMHungry: snap.Indicators.AMHungry,
			PMFed:    snap.Indicators.PMFed,
			PMHungry: snap.Indicators.PMHungry,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: cfg.Broker},
		Counts: CountsJSON{
			FedAM:    snap.Counts.FedAM,
			FedPM:    snap.Counts.FedPM,
			Timeouts: snap.Counts.Timeouts,
		},
		Config: ConfigJSON{
			FeedHours:   cfg.FeedHours,
			FeedMinutes: cfg.FeedMinutes,
			BlinkMs:     cfg.BlinkMs,
			PollMs:      cfg.PollMs,
			DebounceMs:  cfg.DebounceMs,
			HeartbeatMs: cfg.HeartbeatMs,
			Backend:     cfg.Backend,
			Broker:      cfg.Broker,
			HTTPAddr:    cfg.HTTPAddr,
		},
	}
	if n := snap.Network; n != nil {
		inner.Network = &NetworkJSON{
			Type:       n.Type,
			IP:         n.IP,
			Status:     n.Status,
			Gateway:    n.Gateway,
			WifiStatus: n.WifiStatus,
			SSID:       n.SSID,
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
