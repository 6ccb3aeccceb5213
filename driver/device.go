// Package driver is a bus master client for the encoder ring board.
//
// Every register sits at its own bus address: base address plus register
// offset. A register is read by addressing it for a read and written by
// addressing it for a write; there is no register pointer byte.
package driver

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"

	"rib/protocol"
)

// DefaultAddress is the base bus address of the board
const DefaultAddress = 0x10

// ErrFrameTooLong is returned for illumination frames over the register size
var ErrFrameTooLong = errors.New("driver: illumination frame exceeds register size")

// Device talks to one encoder ring board
type Device struct {
	bus     drivers.I2C
	Address uint16
}

// New creates a device on bus at the given base address
func New(bus drivers.I2C, address uint16) *Device {
	return &Device{
		bus:     bus,
		Address: address,
	}
}

// Value returns the rotation accumulated since the last read and clears it
// on the device
func (d *Device) Value() (int32, error) {
	var buf [4]byte
	if err := d.read(protocol.RegValue, buf[:]); err != nil {
		return 0, err
	}
	return protocol.Int32(buf[:]), nil
}

// Clicks returns the presses counted since the last read and clears them on
// the device
func (d *Device) Clicks() (uint32, error) {
	var buf [4]byte
	if err := d.read(protocol.RegClicks, buf[:]); err != nil {
		return 0, err
	}
	return protocol.Uint32(buf[:]), nil
}

// SetValue overwrites the value register. The board also applies v as an
// increment: in NORMAL mode it changes the speed, in ADJUST mode it steps
// the animation selection.
func (d *Device) SetValue(v int32) error {
	var buf [4]byte
	protocol.PutInt32(buf[:], v)
	return d.write(protocol.RegValue, buf[:])
}

// SetClicks overwrites the click register. Any write to it also toggles
// the board's mode.
func (d *Device) SetClicks(n uint32) error {
	var buf [4]byte
	protocol.PutUint32(buf[:], n)
	return d.write(protocol.RegClicks, buf[:])
}

// ToggleMode switches the board between NORMAL and ADJUST without changing
// the click count
func (d *Device) ToggleMode() error {
	return d.write(protocol.RegClicks, []byte{0})
}

// SetIllumination selects what the ring shows in NORMAL mode. With
// protocol.IlluminationDirect, byte i of data is the intensity of LED i.
// data may be nil to change the kind only.
func (d *Device) SetIllumination(kind uint8, data []byte) error {
	if len(data) > protocol.BufferSize {
		return ErrFrameTooLong
	}
	if data != nil {
		if err := d.write(protocol.RegIlluminationData, data); err != nil {
			return err
		}
	}
	return d.write(protocol.RegIlluminationType, []byte{kind})
}

func (d *Device) read(reg protocol.Register, buf []byte) error {
	if err := d.bus.Tx(d.Address+uint16(reg), nil, buf); err != nil {
		return fmt.Errorf("read %s: %w", reg, err)
	}
	return nil
}

func (d *Device) write(reg protocol.Register, data []byte) error {
	if err := d.bus.Tx(d.Address+uint16(reg), data, nil); err != nil {
		return fmt.Errorf("write %s: %w", reg, err)
	}
	return nil
}
