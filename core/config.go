package core

import (
	"encoding/json"
	"errors"
)

// Config holds the board topology and runtime tuning
type Config struct {
	LEDCount  int     `json:"led_count"`
	Phases    int     `json:"phases"`
	BitPlanes int     `json:"bit_planes"`
	PhasePins []uint8 `json:"phase_pins"` // port bit offset of each drive line, in phase order

	LockoutTicks uint32 `json:"lockout_ticks"`

	FrameThreshold   uint32 `json:"frame_threshold"`
	Tail             int    `json:"tail"`
	FullIntensity    uint8  `json:"full_intensity"`
	PartialIntensity uint8  `json:"partial_intensity"`
	SweepIntensity   uint8  `json:"sweep_intensity"`
	InitialSpeed     int32  `json:"initial_speed"`

	BusBaseAddress uint8 `json:"bus_base_address"`
	BusAddressMask uint8 `json:"bus_address_mask"`

	ReportTicks uint32 `json:"report_ticks"` // 0 disables the status report
}

var (
	ErrConfigPhases    = errors.New("config: phases must be at least 2")
	ErrConfigBitPlanes = errors.New("config: bit_planes must be 1..8")
	ErrConfigPins      = errors.New("config: phase_pins must list one distinct port bit (0..31) per phase")
	ErrConfigLEDs      = errors.New("config: led_count must be 1..phases*(phases-1)")
	ErrConfigAddress   = errors.New("config: bus address is 7 bits")
)

// DefaultConfig returns the configuration of the 20 LED encoder ring board
func DefaultConfig() *Config {
	return &Config{
		LEDCount:  20,
		Phases:    5,
		BitPlanes: 4,
		// PA02, PA03, PA06, PA05, PA04 on the ring board
		PhasePins: []uint8{2, 3, 6, 5, 4},

		LockoutTicks: 250,

		FrameThreshold:   100000,
		Tail:             2,
		FullIntensity:    0xFF,
		PartialIntensity: 127,
		SweepIntensity:   0x20,
		InitialSpeed:     1,

		BusBaseAddress: 0x10,
		BusAddressMask: 0x07,
	}
}

// LoadConfig parses a JSON configuration over the defaults. Omitted fields
// keep their default; fields present in the JSON, zeros included, win.
func LoadConfig(jsonData []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the topology can be driven
func (c *Config) Validate() error {
	if c.Phases < 2 {
		return ErrConfigPhases
	}
	if c.BitPlanes < 1 || c.BitPlanes > 8 {
		return ErrConfigBitPlanes
	}
	if len(c.PhasePins) != c.Phases {
		return ErrConfigPins
	}

	var used PinMask
	for _, pin := range c.PhasePins {
		if pin >= 32 || used&(PinMask(1)<<pin) != 0 {
			return ErrConfigPins
		}
		used |= PinMask(1) << pin
	}

	if c.LEDCount < 1 || c.LEDCount > c.Phases*(c.Phases-1) {
		return ErrConfigLEDs
	}
	if c.BusBaseAddress > 0x7F || c.BusAddressMask > 0x7F {
		return ErrConfigAddress
	}
	return nil
}
