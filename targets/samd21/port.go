//go:build atsamd21

package main

import (
	"device/sam"

	"rib/core"
)

// samPort drives the LED lines through the PORT group 0 set/clear
// registers, so one write changes only the masked lines and never races
// other PA pins
type samPort struct{}

func (samPort) SetOutput(mask core.PinMask)      { sam.PORT.OUTSET0.Set(uint32(mask)) }
func (samPort) ClearOutput(mask core.PinMask)    { sam.PORT.OUTCLR0.Set(uint32(mask)) }
func (samPort) SetDirection(mask core.PinMask)   { sam.PORT.DIRSET0.Set(uint32(mask)) }
func (samPort) ClearDirection(mask core.PinMask) { sam.PORT.DIRCLR0.Set(uint32(mask)) }
