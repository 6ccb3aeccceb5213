//go:build atsamd21

package main

import (
	"device/sam"
	_ "embed"
	"machine"
	"runtime/interrupt"
	"time"

	"rib/core"
)

// SAMD21 port of the ring board. The LED lines (PA02..PA06), the encoder
// (PA10, PA11) and the switch (PA27) sit where the board has them. The
// board's bus pins PA14/PA15 are SERCOM0 PAD0/PAD1 only on its SAMD11 part,
// so the bus moves to PA08/PA09, which are SERCOM0 PAD0/PAD1 here.
const (
	pinEncoderA = machine.PA11 // rotation edge
	pinEncoderB = machine.PA10 // direction companion
	pinSwitch   = machine.PA27 // push switch, active low

	pinSDA = machine.PA08 // SERCOM0 PAD0
	pinSCL = machine.PA09 // SERCOM0 PAD1
)

// Poll loop period; also the unit of every tick count in config.json
const tickInterval = 10 * time.Microsecond

//go:embed config.json
var configJSON []byte

var (
	fw  *core.Firmware
	bus *sercomTarget
)

func main() {
	core.SetDebugWriter(func(msg string) {
		machine.Serial.Write([]byte(msg))
		machine.Serial.Write([]byte("\r\n"))
	})

	cfg, err := core.LoadConfig(configJSON)
	if err != nil {
		core.SetDebugEnabled(true)
		core.DebugPrintln("config: " + err.Error() + ", using defaults")
		cfg = core.DefaultConfig()
	}
	if cfg.ReportTicks != 0 {
		core.SetDebugEnabled(true)
		core.InitAsyncDebug()
	}

	fw, err = core.NewFirmware(cfg, samPort{}, pinEncoderB)
	if err != nil {
		// Default topology always validates; only a bad config.json gets here
		for {
			core.DebugPrintln("firmware: " + err.Error())
			time.Sleep(time.Second)
		}
	}

	initEncoder()
	initBus(cfg)

	for {
		fw.Tick()
		time.Sleep(tickInterval)
	}
}

// initEncoder arms the edge interrupts. The decoder's lockout does the
// debouncing, so no hardware filter is enabled.
func initEncoder() {
	pinEncoderA.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinEncoderB.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinSwitch.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	pinEncoderA.SetInterrupt(machine.PinToggle, func(machine.Pin) {
		fw.RotationEdge()
	})
	pinSwitch.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		fw.PressEdge()
	})
}

// initBus brings up the register interface on SERCOM0
func initBus(cfg *core.Config) {
	bus = newSercomTarget()
	bus.Configure(pinSDA, pinSCL, cfg.BusBaseAddress, cfg.BusAddressMask)

	intr := interrupt.New(sam.IRQ_SERCOM0, func(interrupt.Interrupt) {
		fw.ServiceBus(bus)
	})
	intr.SetPriority(0xC0)
	intr.Enable()
}
