package core

import "testing"

// mockPort records the PORT register state after every write
type mockPort struct {
	out PinMask
	dir PinMask

	// Called after every register write
	onWrite func(p *mockPort)
	writes  int
}

func (p *mockPort) SetOutput(mask PinMask)      { p.out |= mask; p.wrote() }
func (p *mockPort) ClearOutput(mask PinMask)    { p.out &^= mask; p.wrote() }
func (p *mockPort) SetDirection(mask PinMask)   { p.dir |= mask; p.wrote() }
func (p *mockPort) ClearDirection(mask PinMask) { p.dir &^= mask; p.wrote() }

func (p *mockPort) wrote() {
	p.writes++
	if p.onWrite != nil {
		p.onWrite(p)
	}
}

// driven returns the lines that are outputs held high
func (p *mockPort) driven() PinMask {
	return p.out & p.dir
}

// lit reports whether led conducts with the port in its current state
func (p *mockPort) lit(d *Display, led int) bool {
	drive := d.leds[led]
	src := d.phaseMask[drive.phase]
	return p.driven()&src != 0 && p.dir&drive.sink != 0 && p.out&drive.sink == 0
}

func popcount(m PinMask) int {
	n := 0
	for m != 0 {
		m &= m - 1
		n++
	}
	return n
}

func newTestDisplay(t *testing.T) (*Display, *mockPort) {
	t.Helper()
	port := &mockPort{}
	d, err := NewDisplay(DefaultConfig(), port)
	if err != nil {
		t.Fatalf("NewDisplay failed: %v", err)
	}
	return d, port
}

func TestDisplayCharlieplexMap(t *testing.T) {
	d, _ := newTestDisplay(t)

	if d.Len() != 20 {
		t.Fatalf("expected 20 LEDs, got %d", d.Len())
	}

	// Pins A..E are port bits 2, 3, 6, 5, 4
	tests := []struct {
		led   int
		phase uint8
		sink  PinMask
	}{
		{0, 0, 1 << 3},  // D1 A->B
		{3, 0, 1 << 4},  // D4 A->E
		{4, 1, 1 << 2},  // D5 B->A
		{5, 1, 1 << 6},  // D6 B->C
		{10, 2, 1 << 5}, // D11 C->D
		{15, 3, 1 << 4}, // D16 D->E
		{19, 4, 1 << 5}, // D20 E->D
	}
	for _, tt := range tests {
		got := d.leds[tt.led]
		if got.phase != tt.phase || got.sink != tt.sink {
			t.Errorf("LED %d: expected phase %d sink %#x, got phase %d sink %#x",
				tt.led, tt.phase, tt.sink, got.phase, got.sink)
		}
	}

	for i, led := range d.leds {
		if d.phaseMask[led.phase] == led.sink {
			t.Errorf("LED %d sinks into its own source line", i)
		}
	}
}

func TestDisplaySetLEDDoesNoIO(t *testing.T) {
	d, port := newTestDisplay(t)
	before := port.writes

	for i := 0; i < d.Len(); i++ {
		if err := d.SetLED(i, uint8(i*13)); err != nil {
			t.Fatalf("SetLED(%d) failed: %v", i, err)
		}
	}
	d.Clear()

	if port.writes != before {
		t.Errorf("expected no port writes from SetLED/Clear, got %d", port.writes-before)
	}
}

func TestDisplaySetLEDRange(t *testing.T) {
	d, _ := newTestDisplay(t)

	if err := d.SetLED(-1, 10); err != ErrLEDRange {
		t.Errorf("expected ErrLEDRange for -1, got %v", err)
	}
	if err := d.SetLED(d.Len(), 10); err != ErrLEDRange {
		t.Errorf("expected ErrLEDRange for %d, got %v", d.Len(), err)
	}
	if d.Intensity(d.Len()) != 0 {
		t.Error("expected 0 intensity out of range")
	}
}

func TestDisplayBitPlanes(t *testing.T) {
	d, _ := newTestDisplay(t)

	if err := d.SetLED(6, 0xA7); err != nil { // top 4 bits 1010
		t.Fatal(err)
	}
	led := d.leds[6]

	want := []bool{false, true, false, true}
	for b, on := range want {
		got := d.sinks[b][led.phase]&led.sink != 0
		if got != on {
			t.Errorf("bit-plane %d: expected %v, got %v", b, on, got)
		}
	}
	if d.Intensity(6) != 0xA7 {
		t.Errorf("expected intensity 0xA7, got %#x", d.Intensity(6))
	}

	d.SetLED(6, 0x0F) // below the top bits: dark
	for b := range want {
		if d.sinks[b][led.phase]&led.sink != 0 {
			t.Errorf("bit-plane %d still set after dimming", b)
		}
	}
}

func TestDisplayScanOrder(t *testing.T) {
	d, _ := newTestDisplay(t)

	if d.Phase() != 0 || d.Cycle() != 0 {
		t.Fatalf("expected scan to start at phase 0 cycle 0, got %d/%d", d.Phase(), d.Cycle())
	}

	// Bit-plane b dwells 2^b ticks on each of the 5 phases
	for cycle := 0; cycle < 4; cycle++ {
		for phase := 0; phase < 5; phase++ {
			if d.Phase() != phase || d.Cycle() != cycle {
				t.Fatalf("expected phase %d cycle %d, got %d/%d", phase, cycle, d.Phase(), d.Cycle())
			}
			for i := 0; i < 1<<cycle; i++ {
				d.Tick()
			}
		}
	}

	if d.Phase() != 0 || d.Cycle() != 0 {
		t.Errorf("expected scan to wrap to phase 0 cycle 0, got %d/%d", d.Phase(), d.Cycle())
	}
	if d.ScanTicks() != 75 {
		t.Errorf("expected 75 ticks per scan, got %d", d.ScanTicks())
	}
}

func TestDisplayAtMostOneDrivenPhase(t *testing.T) {
	port := &mockPort{}
	violations := 0
	port.onWrite = func(p *mockPort) {
		if popcount(p.driven()) > 1 {
			violations++
		}
	}

	d, err := NewDisplay(DefaultConfig(), port)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < d.Len(); i++ {
		d.SetLED(i, 0xFF)
	}

	for tick := 0; tick < 3*d.ScanTicks(); tick++ {
		d.Tick()
		if tick == d.ScanTicks() {
			d.Clear()
			d.SetLED(7, 0x80)
		}
	}

	if violations != 0 {
		t.Errorf("observed %d port states with more than one driven phase", violations)
	}
}

func TestDisplayDutyMonotonic(t *testing.T) {
	// One LED per phase, at different intensities
	leds := []int{0, 4, 8, 12, 16}

	prev := -1
	for level := 0; level < 256; level++ {
		d, port := newTestDisplay(t)
		for _, led := range leds {
			d.SetLED(led, uint8(level))
		}

		// The slot active during SetLED keeps its old sinks, so let one
		// full scan pass before measuring
		for tick := 0; tick < d.ScanTicks(); tick++ {
			d.Tick()
		}

		onTicks := make([]int, len(leds))
		for tick := 0; tick < d.ScanTicks(); tick++ {
			for i, led := range leds {
				if port.lit(d, led) {
					onTicks[i]++
				}
			}
			d.Tick()
		}

		want := level >> 4
		for i, on := range onTicks {
			if on != want {
				t.Fatalf("intensity %d LED %d: expected %d on-ticks, got %d", level, leds[i], want, on)
			}
		}
		for i, on := range onTicks {
			if on < prev {
				t.Fatalf("duty of LED %d decreased at intensity %d", leds[i], level)
			}
		}
		prev = onTicks[0]
	}
}

func TestDisplayChangesApplyAtNextActivation(t *testing.T) {
	d, port := newTestDisplay(t)

	// LED 0 lives on phase 0, which is active right now
	d.SetLED(0, 0xFF)
	if port.lit(d, 0) {
		t.Fatal("SetLED should not change the port until the scanner moves")
	}

	for d.Phase() != 0 || d.Cycle() != 1 {
		d.Tick()
	}
	if !port.lit(d, 0) {
		t.Error("expected LED 0 to be lit when phase 0 is next driven")
	}
}

func TestNewDisplayRejectsBadTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LEDCount = 21
	if _, err := NewDisplay(cfg, &mockPort{}); err != ErrConfigLEDs {
		t.Errorf("expected ErrConfigLEDs, got %v", err)
	}
}
