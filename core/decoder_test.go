package core

import (
	"math"
	"testing"
)

// mockPin is a settable PinLevel
type mockPin struct {
	high bool
}

func (p *mockPin) Get() bool {
	return p.high
}

func TestDecoderDirection(t *testing.T) {
	pin := &mockPin{}
	d := NewDecoder(pin, 0)

	pin.high = false
	d.RotationEdge()
	if got := d.DrainIncrement(); got != 1 {
		t.Errorf("B low: expected +1, got %d", got)
	}

	pin.high = true
	d.RotationEdge()
	if got := d.DrainIncrement(); got != -1 {
		t.Errorf("B high: expected -1, got %d", got)
	}
}

func TestDecoderAccumulatesSpacedEdges(t *testing.T) {
	const lockout = 5
	pin := &mockPin{}
	d := NewDecoder(pin, lockout)

	levels := []bool{false, false, true, false, true, true, true, false}
	want := int32(0)
	for _, high := range levels {
		pin.high = high
		d.RotationEdge()
		if high {
			want--
		} else {
			want++
		}
		for i := 0; i < lockout; i++ {
			d.Tick()
		}
	}

	if got := d.DrainIncrement(); got != want {
		t.Errorf("expected net rotation %d, got %d", want, got)
	}
	if got := d.DrainIncrement(); got != 0 {
		t.Errorf("expected 0 after drain, got %d", got)
	}
}

func TestDecoderLockoutSuppressesEdges(t *testing.T) {
	const lockout = 10
	d := NewDecoder(&mockPin{}, lockout)

	d.RotationEdge()
	if !d.Locked() {
		t.Fatal("expected decoder to be locked after an accepted edge")
	}

	for i := 0; i < lockout-1; i++ {
		d.Tick()
		d.RotationEdge()
		d.PressEdge()
	}

	if got := d.DrainIncrement(); got != 1 {
		t.Errorf("expected only the first edge to count, got %d", got)
	}
	if got := d.DrainClicks(); got != 0 {
		t.Errorf("expected presses inside the lockout to be ignored, got %d", got)
	}

	d.Tick()
	if d.Locked() {
		t.Fatal("expected lockout to expire after lockout ticks")
	}
	d.PressEdge()
	if got := d.DrainClicks(); got != 1 {
		t.Errorf("expected press after lockout to count, got %d", got)
	}
}

func TestDecoderTickStopsAtZero(t *testing.T) {
	d := NewDecoder(&mockPin{}, 2)
	for i := 0; i < 5; i++ {
		d.Tick()
	}
	if d.Locked() {
		t.Error("idle decoder should stay unlocked")
	}

	d.RotationEdge()
	d.Tick()
	d.Tick()
	d.Tick()
	if d.Locked() {
		t.Error("expected lockout to reach zero and stay there")
	}
}

func TestDecoderDrainKeepsLateEdges(t *testing.T) {
	d := NewDecoder(&mockPin{}, 0)

	d.RotationEdge()
	d.RotationEdge()
	first := d.DrainIncrement()
	d.RotationEdge()

	if first != 2 {
		t.Errorf("expected first drain 2, got %d", first)
	}
	if got := d.DrainIncrement(); got != 1 {
		t.Errorf("expected edge after drain to be kept, got %d", got)
	}
}

func TestDecoderClicksWrap(t *testing.T) {
	d := NewDecoder(&mockPin{}, 0)
	d.clicks = math.MaxUint32

	d.PressEdge()
	if got := d.DrainClicks(); got != 0 {
		t.Errorf("expected click counter to wrap to 0, got %d", got)
	}

	d.PressEdge()
	d.PressEdge()
	if got := d.DrainClicks(); got != 2 {
		t.Errorf("expected 2 clicks, got %d", got)
	}
}

func TestDecoderNilCompanion(t *testing.T) {
	d := NewDecoder(nil, 0)
	d.RotationEdge()
	if got := d.DrainIncrement(); got != 1 {
		t.Errorf("expected +1 without a companion pin, got %d", got)
	}
}
