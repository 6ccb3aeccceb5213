// Package i2cbus exposes a host I2C adapter (Linux i2c-dev, FT232H, ...)
// as a tinygo drivers.I2C, so the board driver runs unchanged on a host.
package i2cbus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

// Bus adapts a periph I2C bus
type Bus struct {
	bus i2c.BusCloser
}

// Open initializes the host drivers and opens the named bus.
// An empty name selects the first bus found.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}

	b, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", name, err)
	}
	return Wrap(b), nil
}

// Wrap adapts an already open bus
func Wrap(b i2c.BusCloser) *Bus {
	return &Bus{bus: b}
}

// SetSpeed sets the bus clock in hertz
func (b *Bus) SetSpeed(hz int64) error {
	return b.bus.SetSpeed(physic.Frequency(hz) * physic.Hertz)
}

// Tx runs one combined write/read transaction
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return b.bus.Tx(addr, w, r)
}

// Close releases the bus
func (b *Bus) Close() error {
	return b.bus.Close()
}

func (b *Bus) String() string {
	return b.bus.String()
}
