package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
)

var start = time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)

// fedDevice returns a device that has seen one AM feed.
func fedDevice(t *testing.T) *logic.Device {
	t.Helper()
	d := logic.NewDevice(logic.DefaultSettings(), 0, start)
	d.Process(logic.Input{AM: logic.High, PM: logic.High, Tick: 0})
	d.Process(logic.Input{AM: logic.Low, PM: logic.High, Tick: 10})
	out := d.Process(logic.Input{AM: logic.Low, PM: logic.High, Tick: 20})
	if len(out.Events) != 1 || out.Events[0].Trigger != logic.TriggerFedAM {
		t.Fatalf("expected one FED_AM event, got %v", out.Events)
	}
	return d
}

func TestNewTracker(t *testing.T) {
	cfg := Config{PollMs: 1, DebounceMs: 5, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker("boot-1", start, cfg)

	snap := tr.Snapshot()
	if snap.BootID != "boot-1" {
		t.Errorf("BootID: got %q, want boot-1", snap.BootID)
	}
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.State != logic.HungryMorning {
		t.Errorf("State: got %v, want HUNGRY/MORNING", snap.State)
	}
	if !snap.Indicators.AMHungry || snap.Indicators.Lit() != 1 {
		t.Errorf("expected only AM hungry lit initially, got %+v", snap.Indicators)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateFromDevice(t *testing.T) {
	tr := NewTracker("b", start, Config{})
	tr.Update(fedDevice(t))

	snap := tr.Snapshot()
	if snap.State != logic.FullMorning {
		t.Errorf("State: got %v, want FULL/MORNING", snap.State)
	}
	if snap.Counts.FedAM != 1 {
		t.Errorf("Counts.FedAM: got %d, want 1", snap.Counts.FedAM)
	}
	if !snap.Indicators.AMFed || snap.Indicators.AMHungry {
		t.Errorf("expected AM fed LED only, got %+v", snap.Indicators)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker("b", start, Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker("b", start, Config{})

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"})

	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected non-nil Network")
	}
	if snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want %q", snap.Network.IP, "192.168.1.42")
	}
}

func TestSnapshotUptime(t *testing.T) {
	tr := NewTracker("b", start, Config{})
	tr.now = func() time.Time { return start.Add(15 * time.Minute) }

	if got := tr.Snapshot().Uptime(); got != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker("b", start, Config{})
	snap1 := tr.Snapshot()

	tr.Update(fedDevice(t))

	if snap1.State != logic.HungryMorning {
		t.Error("snapshot should be a copy; State was modified")
	}
}

func testSnapshot() Snapshot {
	return Snapshot{
		BootID:        "7d9c1f0e-0000-4000-8000-000000000000",
		State:         logic.FullNight,
		Elapsed:       logic.Elapsed{Hours: 2, Minutes: 5, Seconds: 9},
		Indicators:    logic.Indicators{PMFed: true},
		Counts:        logic.EventCounts{FedAM: 5, FedPM: 4, Timeouts: 8},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config: Config{
			FeedHours:   6,
			BlinkMs:     500,
			PollMs:      1,
			DebounceMs:  5,
			HeartbeatMs: 900000,
			Backend:     "cdev",
			Broker:      "tcp://localhost:1883",
			HTTPAddr:    ":80",
		},
	}
}

func TestFormatJSON(t *testing.T) {
	data := FormatJSON(testSnapshot())

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	s := parsed.Status

	if s.State != "FULL/NIGHT" || s.Satiety != "FULL" || s.Period != "NIGHT" {
		t.Errorf("state fields: got %q %q %q", s.State, s.Satiety, s.Period)
	}
	if s.Elapsed != (ElapsedJSON{Hours: 2, Minutes: 5, Seconds: 9}) {
		t.Errorf("Elapsed: got %+v", s.Elapsed)
	}
	if s.LEDs != (LEDsJSON{PMFed: true}) {
		t.Errorf("LEDs: got %+v", s.LEDs)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("MQTT: got %+v", s.MQTT)
	}
	if s.Counts != (CountsJSON{FedAM: 5, FedPM: 4, Timeouts: 8}) {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.FeedHours != 6 || s.Config.BlinkMs != 500 || s.Config.Backend != "cdev" {
		t.Errorf("Config: got %+v", s.Config)
	}
	if s.BootID == "" {
		t.Error("expected boot_id")
	}
	// Event and Reason should be omitted
	if s.Event != "" || s.Reason != "" {
		t.Errorf("expected empty Event/Reason for web format, got %q/%q", s.Event, s.Reason)
	}
	if s.Network != nil {
		t.Error("expected network omitted when unknown")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	data := FormatStatusEvent(testSnapshot(), "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
	if parsed.Status.State != "FULL/NIGHT" {
		t.Errorf("State: got %q", parsed.Status.State)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	data := FormatStatusEvent(testSnapshot(), "STARTUP", "")

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := raw["status"]["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if raw["status"]["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", raw["status"]["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	snap := testSnapshot()
	snap.Network = &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if parsed.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", parsed.Status.Network.IP)
	}
	if parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network.SSID: got %q, want MyNet", parsed.Status.Network.SSID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker("b", start, Config{})
	d := logic.NewDevice(logic.DefaultSettings(), 0, start)
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			d.Process(logic.Input{AM: logic.High, PM: logic.High, Tick: logic.Tick(i)})
			tr.Update(d)
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
