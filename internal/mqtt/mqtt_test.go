package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pet-feeder/internal/logic"
)

func TestFormatPayloadExactJSON(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 2, 2, 7, 18, 12, 0, time.UTC),
		Trigger:   logic.TriggerFedAM,
		From:      logic.HungryMorning,
		To:        logic.FullMorning,
		Elapsed:   logic.Elapsed{Hours: 0, Minutes: 4, Seconds: 9},
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"feeder":{"timestamp":"2026-02-02T07:18:12Z","event":"FED_AM","period":"MORNING","satiety":"FULL","elapsed":{"hours":0,"minutes":4,"seconds":9}}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadUsesTargetState(t *testing.T) {
	tests := []struct {
		trigger     logic.Trigger
		from, to    logic.State
		wantPeriod  string
		wantSatiety string
	}{
		{logic.TriggerFedAM, logic.HungryMorning, logic.FullMorning, "MORNING", "FULL"},
		{logic.TriggerTimeout, logic.FullMorning, logic.HungryNight, "NIGHT", "HUNGRY"},
		{logic.TriggerFedPM, logic.HungryNight, logic.FullNight, "NIGHT", "FULL"},
		{logic.TriggerTimeout, logic.FullNight, logic.HungryMorning, "MORNING", "HUNGRY"},
		{logic.TriggerFedPM, logic.HungryMorning, logic.FullNight, "NIGHT", "FULL"},
	}

	for _, tt := range tests {
		t.Run(string(tt.trigger)+"_"+tt.to.String(), func(t *testing.T) {
			payload, err := FormatPayload(logic.Event{
				Timestamp: time.Now(),
				Trigger:   tt.trigger,
				From:      tt.from,
				To:        tt.to,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Feeder.Event != string(tt.trigger) {
				t.Errorf("event: got %s, want %s", parsed.Feeder.Event, tt.trigger)
			}
			if parsed.Feeder.Period != tt.wantPeriod {
				t.Errorf("period: got %s, want %s", parsed.Feeder.Period, tt.wantPeriod)
			}
			if parsed.Feeder.Satiety != tt.wantSatiety {
				t.Errorf("satiety: got %s, want %s", parsed.Feeder.Satiety, tt.wantSatiety)
			}
		})
	}
}

func TestFormatPayloadTimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	payload, err := FormatPayload(logic.Event{
		Timestamp: time.Date(2026, 6, 1, 19, 0, 0, 0, loc),
		Trigger:   logic.TriggerFedPM,
		To:        logic.FullNight,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Feeder.Timestamp != "2026-06-01T18:00:00Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Feeder.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "home/pet/feeder/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "home/pet/feeder/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "RECONNECTED",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["system"]["reason"]; exists {
		t.Error("reason field should be omitted when empty")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"event":"HEARTBEAT","custom":1}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{Timestamp: time.Now(), Trigger: logic.TriggerFedAM, To: logic.FullMorning}
	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 || f.Events[0].Trigger != logic.TriggerFedAM {
		t.Errorf("unexpected events: %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Errorf("expected 1 payload, got %d", len(f.Payloads))
	}
	names := f.SystemEventNames()
	if len(names) != 1 || names[0] != "STARTUP" {
		t.Errorf("unexpected system events: %v", names)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated system error")

	if err := f.Publish(logic.Event{Trigger: logic.TriggerFedPM}); err == nil {
		t.Error("expected error from Publish")
	}
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected error from PublishSystem")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("nothing should be recorded on error")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Trigger: logic.TriggerFedAM})
	f.Connected = true
	f.PublishError = errors.New("error")

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("events should be cleared")
	}
	if f.Closed || f.Connected || f.PublishError != nil {
		t.Error("flags and errors should be cleared")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}

	if err := p.Publish(logic.Event{Trigger: logic.TriggerTimeout}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if p.(ConnectionStatus).IsConnected() {
		t.Error("nop publisher should never report connected")
	}
}
