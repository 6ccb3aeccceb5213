package core

import "testing"

func TestEventRingWraps(t *testing.T) {
	ClearEventRing()
	setEventClock(nil)

	for i := 0; i < EventRingSize+5; i++ {
		RecordEvent(EvtOverread, 0, uint32(i))
	}

	events := Events()
	if len(events) != EventRingSize {
		t.Fatalf("expected %d events, got %d", EventRingSize, len(events))
	}
	if events[0].Value != 5 || events[len(events)-1].Value != EventRingSize+4 {
		t.Errorf("expected oldest 5 and newest %d, got %d and %d",
			EventRingSize+4, events[0].Value, events[len(events)-1].Value)
	}

	ClearEventRing()
	if len(Events()) != 0 {
		t.Error("expected empty ring after clear")
	}
}

func TestDumpEventRing(t *testing.T) {
	ClearEventRing()
	setEventClock(func() uint32 { return 42 })
	defer setEventClock(nil)

	var out []string
	SetDebugWriter(func(s string) { out = append(out, s) })
	defer SetDebugWriter(func(string) {})

	RecordEvent(EvtBusError, 1, 3)
	DumpEventRing()

	if len(out) != 3 {
		t.Fatalf("expected header, event and footer, got %v", out)
	}
	if out[1] != "[EVENT] BUS_ERROR reg=1 tick=42 value=3" {
		t.Errorf("unexpected line %q", out[1])
	}
}

func TestDebugAsyncDisabled(t *testing.T) {
	SetDebugEnabled(false)
	debugChan = make(chan string, 1)
	defer func() { debugChan = nil }()

	DebugAsync("dropped")
	if len(debugChan) != 0 {
		t.Error("expected no output while disabled")
	}

	SetDebugEnabled(true)
	defer SetDebugEnabled(false)
	DebugAsync("one")
	DebugAsync("two") // channel full, dropped
	if got := <-debugChan; got != "one" {
		t.Errorf("expected first message, got %q", got)
	}
}

func TestItoa(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{-42, "-42"},
		{4294967295, "4294967295"},
	}
	for _, tt := range tests {
		if got := itoa(tt.n); got != tt.want {
			t.Errorf("itoa(%d) = %q, expected %q", tt.n, got, tt.want)
		}
	}
}

func TestDrainEvents(t *testing.T) {
	ClearEventRing()
	setEventClock(nil)

	RecordEvent(EvtCommand, 0, 4)
	RecordEvent(EvtModeSwitch, 0, 1)

	events := DrainEvents()
	if len(events) != 2 || events[0].Kind != EvtCommand || events[1].Kind != EvtModeSwitch {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(Events()) != 0 {
		t.Error("expected ring empty after drain")
	}
}
