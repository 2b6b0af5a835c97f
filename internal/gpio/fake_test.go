package gpio

import (
	"errors"
	"testing"

	"github.com/sweeney/pet-feeder/internal/logic"
)

func TestFakePanelRead(t *testing.T) {
	samples := []Sample{
		{AM: logic.High, PM: logic.Low},
		{AM: logic.Low, PM: logic.High},
		{AM: logic.Low, PM: logic.Low},
	}

	f := NewFakePanel(samples)

	for i, want := range samples {
		am, pm, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if am != want.AM || pm != want.PM {
			t.Errorf("sample %d: expected (%s, %s), got (%s, %s)", i, want.AM, want.PM, am, pm)
		}
	}

	// Fourth read should repeat last sample
	am, pm, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if am != logic.Low || pm != logic.Low {
		t.Errorf("repeat: expected (LOW, LOW), got (%s, %s)", am, pm)
	}
}

func TestFakePanelNoSamples(t *testing.T) {
	f := NewFakePanel(nil)

	if _, _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakePanelErrors(t *testing.T) {
	f := NewFakePanel([]Sample{Released})
	f.ReadError = errors.New("simulated read error")
	f.WriteError = errors.New("simulated write error")

	if _, _, err := f.Read(); err == nil || err.Error() != "simulated read error" {
		t.Errorf("unexpected read error: %v", err)
	}
	if err := f.Write(logic.Indicators{AMFed: true}); err == nil {
		t.Error("expected write error")
	}
	if len(f.Writes) != 0 {
		t.Errorf("failed write should not be recorded, got %d", len(f.Writes))
	}
}

func TestFakePanelWrites(t *testing.T) {
	f := NewFakePanel([]Sample{Released})

	if f.Last() != (logic.Indicators{}) {
		t.Error("expected all-off before any write")
	}

	f.Write(logic.Indicators{AMHungry: true})
	f.Write(logic.Indicators{PMFed: true})

	if len(f.Writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(f.Writes))
	}
	if f.Last() != (logic.Indicators{PMFed: true}) {
		t.Errorf("unexpected last write %+v", f.Last())
	}
}

func TestFakePanelCloseAndReset(t *testing.T) {
	f := NewFakePanel([]Sample{
		{AM: logic.Low, PM: logic.High},
		Released,
	})

	f.Read()
	f.Write(logic.Indicators{AMFed: true})
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}

	f.Reset()
	if f.Closed || len(f.Writes) != 0 {
		t.Error("Reset should clear closed flag and writes")
	}
	am, _, _ := f.Read()
	if am != logic.Low {
		t.Errorf("after reset: expected first sample again, got %s", am)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		ind  logic.Indicators
		want []int
	}{
		{logic.Indicators{}, []int{0, 0, 0, 0}},
		{logic.Indicators{AMFed: true}, []int{1, 0, 0, 0}},
		{logic.Indicators{AMHungry: true}, []int{0, 1, 0, 0}},
		{logic.Indicators{PMFed: true}, []int{0, 0, 1, 0}},
		{logic.Indicators{PMHungry: true}, []int{0, 0, 0, 1}},
	}
	for _, tt := range tests {
		got := Levels(tt.ind)
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("Levels(%+v): got %v, want %v", tt.ind, got, tt.want)
				break
			}
		}
	}
}

func TestPinsValidate(t *testing.T) {
	if err := DefaultPins().Validate(); err != nil {
		t.Errorf("default pins should be valid: %v", err)
	}

	p := DefaultPins()
	p.PMButton = p.AMFed
	if err := p.Validate(); err == nil {
		t.Error("expected error for shared pin")
	}

	p = DefaultPins()
	p.AMHungry = -1
	if err := p.Validate(); err == nil {
		t.Error("expected error for negative pin")
	}
}
