//go:build atsamd21

package main

import (
	"device/sam"
	"machine"

	"rib/core"
)

const (
	i2csSDAHold75 = 0x1 // SDA hold time of 300-600ns

	cmdWaitStart = 0x2 // wait for any start
	cmdContinue  = 0x3 // ack/continue
)

// sercomTarget exposes SERCOM0 in I2C target mode as a core.BusPeripheral
type sercomTarget struct {
	regs *sam.SERCOM_I2CS_Type
}

func newSercomTarget() *sercomTarget {
	return &sercomTarget{regs: sam.SERCOM0_I2CS}
}

// Configure routes SDA/SCL, clocks the SERCOM and enables address-mask
// matching of base|mask. Runs once at boot, before interrupts are enabled.
func (s *sercomTarget) Configure(sda, scl machine.Pin, base, mask uint8) {
	sda.Configure(machine.PinConfig{Mode: machine.PinSERCOM})
	scl.Configure(machine.PinConfig{Mode: machine.PinSERCOM})

	sam.PM.APBCMASK.SetBits(sam.PM_APBCMASK_SERCOM0_)

	sam.GCLK.CLKCTRL.Set((sam.GCLK_CLKCTRL_ID_SERCOM0_CORE << sam.GCLK_CLKCTRL_ID_Pos) |
		(sam.GCLK_CLKCTRL_GEN_GCLK0 << sam.GCLK_CLKCTRL_GEN_Pos) |
		sam.GCLK_CLKCTRL_CLKEN)
	for sam.GCLK.STATUS.HasBits(sam.GCLK_STATUS_SYNCBUSY) {
	}

	r := s.regs
	r.CTRLA.Set(sam.SERCOM_I2CS_CTRLA_SWRST)
	for r.CTRLA.HasBits(sam.SERCOM_I2CS_CTRLA_SWRST) ||
		r.SYNCBUSY.HasBits(sam.SERCOM_I2CS_SYNCBUSY_SWRST) {
	}

	r.CTRLA.Set((sam.SERCOM_I2CS_CTRLA_MODE_I2C_SLAVE << sam.SERCOM_I2CS_CTRLA_MODE_Pos) |
		(i2csSDAHold75 << sam.SERCOM_I2CS_CTRLA_SDAHOLD_Pos))
	r.CTRLB.Set(sam.SERCOM_I2CS_CTRLB_SMEN)
	r.ADDR.Set(uint32(base)<<sam.SERCOM_I2CS_ADDR_ADDR_Pos |
		uint32(mask)<<sam.SERCOM_I2CS_ADDR_ADDRMASK_Pos)
	r.INTENSET.Set(sam.SERCOM_I2CS_INTENSET_PREC | sam.SERCOM_I2CS_INTENSET_AMATCH |
		sam.SERCOM_I2CS_INTENSET_DRDY | sam.SERCOM_I2CS_INTENSET_ERROR)

	r.CTRLA.SetBits(sam.SERCOM_I2CS_CTRLA_ENABLE)
	for r.SYNCBUSY.HasBits(sam.SERCOM_I2CS_SYNCBUSY_ENABLE) {
	}
}

// Pending reports the highest priority raised flag. A stop is reported
// before an address match so a repeated start closes the old transaction
// first.
func (s *sercomTarget) Pending() core.BusEvent {
	flags := s.regs.INTFLAG.Get()
	switch {
	case flags&sam.SERCOM_I2CS_INTFLAG_ERROR != 0:
		return core.BusError
	case flags&sam.SERCOM_I2CS_INTFLAG_PREC != 0:
		return core.BusStop
	case flags&sam.SERCOM_I2CS_INTFLAG_AMATCH != 0:
		return core.BusAddressMatch
	case flags&sam.SERCOM_I2CS_INTFLAG_DRDY != 0:
		return core.BusByteReady
	default:
		return core.BusNone
	}
}

// Address returns the 7-bit address the master sent
func (s *sercomTarget) Address() uint8 {
	return s.regs.DATA.Get() >> 1
}

func (s *sercomTarget) Direction() core.BusDirection {
	if s.regs.STATUS.HasBits(sam.SERCOM_I2CS_STATUS_DIR) {
		return core.BusRead
	}
	return core.BusWrite
}

func (s *sercomTarget) ReadByte() byte {
	return s.regs.DATA.Get()
}

// WriteByte loads the next byte of a read unless the master has already
// NACKed the previous one
func (s *sercomTarget) WriteByte(b byte) {
	if s.regs.STATUS.HasBits(sam.SERCOM_I2CS_STATUS_RXNACK) {
		return
	}
	s.regs.DATA.Set(b)
}

// Ack releases the clock for ev. Every address and data byte is ACKed;
// the responder handles unknown registers and overruns itself.
func (s *sercomTarget) Ack(ev core.BusEvent) {
	r := s.regs
	switch ev {
	case core.BusAddressMatch:
		s.command(cmdContinue)
	case core.BusByteReady:
		if r.STATUS.HasBits(sam.SERCOM_I2CS_STATUS_DIR) &&
			r.STATUS.HasBits(sam.SERCOM_I2CS_STATUS_RXNACK) {
			s.command(cmdWaitStart)
		} else {
			s.command(cmdContinue)
		}
	case core.BusStop:
		r.INTFLAG.Set(sam.SERCOM_I2CS_INTFLAG_PREC)
	case core.BusError:
		r.STATUS.Set(sam.SERCOM_I2CS_STATUS_BUSERR | sam.SERCOM_I2CS_STATUS_COLL |
			sam.SERCOM_I2CS_STATUS_LOWTOUT)
		r.INTFLAG.Set(sam.SERCOM_I2CS_INTFLAG_ERROR)
	}
}

func (s *sercomTarget) command(cmd uint32) {
	r := s.regs
	ctrlb := r.CTRLB.Get()
	ctrlb &^= sam.SERCOM_I2CS_CTRLB_ACKACT | sam.SERCOM_I2CS_CTRLB_CMD_Msk
	r.CTRLB.Set(ctrlb | cmd<<sam.SERCOM_I2CS_CTRLB_CMD_Pos)
}
