// Charlieplexed LED display
// Time-division multiplexed over the drive lines with binary code
// modulation brightness
package core

import "errors"

// ErrLEDRange is returned when an LED position is outside the display
var ErrLEDRange = errors.New("display: LED position out of range")

// ledDrive is the physical wiring of one LED: it lights when its source
// line is driven high and its sink line is an output held low.
type ledDrive struct {
	phase uint8   // index of the source line
	sink  PinMask // sink line
}

// Display owns the per-LED brightness and the scan position.
//
// Each phase energizes one line as source; every LED sourced by that line is
// lit by making its sink line an output (low) and left dark by leaving the
// sink at high impedance. The scan visits every phase once per bit-plane, and
// the dwell of bit-plane b is 2^b ticks, so an LED's on-time over a full scan
// is proportional to the top bits of its intensity.
type Display struct {
	port PortDriver

	leds      []ledDrive
	intensity []uint8
	planes    []uint8 // top bits of intensity, one bit per bit-plane

	phaseMask []PinMask   // source line of each phase
	sinks     [][]PinMask // [bit-plane][phase] sink lines to enable
	durations []uint16    // dwell ticks per bit-plane
	allPins   PinMask

	phases    int
	bitPlanes int

	// Scan state
	phase  int
	cycle  int
	dwell  uint16
	driven PinMask // direction bits set by the last activation
}

// NewDisplay builds the charlieplex map for cfg and parks the scanner on
// phase 0 of bit-plane 0. All LEDs start dark.
func NewDisplay(cfg *Config, port PortDriver) (*Display, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Display{
		port:      port,
		leds:      make([]ledDrive, cfg.LEDCount),
		intensity: make([]uint8, cfg.LEDCount),
		planes:    make([]uint8, cfg.LEDCount),
		phaseMask: make([]PinMask, cfg.Phases),
		sinks:     make([][]PinMask, cfg.BitPlanes),
		durations: make([]uint16, cfg.BitPlanes),
		phases:    cfg.Phases,
		bitPlanes: cfg.BitPlanes,
	}

	for p, pin := range cfg.PhasePins {
		d.phaseMask[p] = PinMask(1) << pin
		d.allPins |= d.phaseMask[p]
	}

	for b := range d.sinks {
		d.sinks[b] = make([]PinMask, cfg.Phases)
		d.durations[b] = 1 << uint(b)
	}

	// LEDs are numbered by source line, then by sink line in phase order
	// with the source itself skipped: D1 = A->B, D2 = A->C, ... D5 = B->A.
	perPhase := cfg.Phases - 1
	for i := range d.leds {
		src := i / perPhase
		sink := i % perPhase
		if sink >= src {
			sink++
		}
		d.leds[i] = ledDrive{
			phase: uint8(src),
			sink:  d.phaseMask[sink],
		}
	}

	d.port.ClearOutput(d.allPins)
	d.port.ClearDirection(d.allPins)
	d.activate()

	return d, nil
}

// Len returns the number of LEDs
func (d *Display) Len() int {
	return len(d.leds)
}

// SetLED records the brightness of one LED. Only the scan tables are
// updated; the pins change when the scanner next reaches the LED's phase.
func (d *Display) SetLED(pos int, intensity uint8) error {
	if pos < 0 || pos >= len(d.leds) {
		return ErrLEDRange
	}

	led := d.leds[pos]
	plane := intensity >> uint(8-d.bitPlanes)

	d.intensity[pos] = intensity
	d.planes[pos] = plane

	for b := 0; b < d.bitPlanes; b++ {
		if plane&(1<<uint(b)) != 0 {
			d.sinks[b][led.phase] |= led.sink
		} else {
			d.sinks[b][led.phase] &^= led.sink
		}
	}
	return nil
}

// Intensity returns the last brightness set for pos, or 0 when out of range
func (d *Display) Intensity(pos int) uint8 {
	if pos < 0 || pos >= len(d.intensity) {
		return 0
	}
	return d.intensity[pos]
}

// Clear turns every LED off
func (d *Display) Clear() {
	for i := range d.leds {
		d.intensity[i] = 0
		d.planes[i] = 0
	}
	for b := range d.sinks {
		for p := range d.sinks[b] {
			d.sinks[b][p] = 0
		}
	}
}

// Tick advances the scan by one tick. When the dwell of the current
// (phase, bit-plane) slot expires the old phase is released before the next
// one is driven; driving two source lines at once would light LEDs through
// sneak paths.
func (d *Display) Tick() {
	d.dwell++
	if d.dwell < d.durations[d.cycle] {
		return
	}
	d.dwell = 0

	d.deactivate()

	d.phase++
	if d.phase >= d.phases {
		d.phase = 0
		d.cycle++
		if d.cycle >= d.bitPlanes {
			d.cycle = 0
		}
	}

	d.activate()
}

// activate drives the source line of the current phase and enables the
// sinks selected for the current bit-plane
func (d *Display) activate() {
	src := d.phaseMask[d.phase]
	d.driven = src | d.sinks[d.cycle][d.phase]

	d.port.SetOutput(src)
	d.port.SetDirection(d.driven)
}

// deactivate returns every line touched by the last activation to high
// impedance
func (d *Display) deactivate() {
	d.port.ClearOutput(d.phaseMask[d.phase])
	d.port.ClearDirection(d.driven)
	d.driven = 0
}

// Phase returns the phase currently being driven
func (d *Display) Phase() int {
	return d.phase
}

// Cycle returns the bit-plane currently being shown
func (d *Display) Cycle() int {
	return d.cycle
}

// ScanTicks returns the number of ticks in one full scan over every phase
// and bit-plane
func (d *Display) ScanTicks() int {
	total := 0
	for _, dur := range d.durations {
		total += int(dur)
	}
	return total * d.phases
}
