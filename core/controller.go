// Controller and animation engine
// Composes decoder input and bus commands into what the display shows
package core

import "rib/protocol"

// Mode is the controller's top-level state
type Mode uint8

const (
	ModeNormal Mode = iota // animation runs, rotation changes speed
	ModeAdjust             // rotation selects the animation
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeAdjust:
		return "ADJUST"
	default:
		return "UNKNOWN"
	}
}

// Animation selects the pattern painted in NORMAL mode
type Animation uint8

const (
	AnimationComet          Animation = iota // focus with a trailing tail
	AnimationSymmetricComet                  // focus with tails on both sides
	AnimationSweep                           // dim sweep out and back, then step focus

	animationCount = 3
)

// Painter is the part of the display the controller draws on
type Painter interface {
	Len() int
	SetLED(pos int, intensity uint8) error
	Clear()
}

// InputSource supplies drained encoder activity
type InputSource interface {
	DrainIncrement() int32
	DrainClicks() uint32
}

// CommandSource supplies completed bus write transactions
type CommandSource interface {
	GetCommand() Command
}

// Controller owns the mode state machine and the animation state.
// All of its fields are touched from poll context only.
type Controller struct {
	display  Painter
	input    InputSource
	commands CommandSource
	regs     *RegisterFile

	mode      Mode
	animation Animation
	speed     int32
	focus     int
	counter   uint32
	sweep     int

	lastSeq     uint32
	directSeq   uint32
	directShown bool
	directFrame [protocol.BufferSize]byte

	frameThreshold   uint32
	tail             int
	fullIntensity    uint8
	partialIntensity uint8
	sweepIntensity   uint8
}

// NewController creates a controller in NORMAL mode showing the focus LED
func NewController(cfg *Config, display Painter, input InputSource, commands CommandSource, regs *RegisterFile) *Controller {
	c := &Controller{
		display:          display,
		input:            input,
		commands:         commands,
		regs:             regs,
		speed:            cfg.InitialSpeed,
		frameThreshold:   cfg.FrameThreshold,
		tail:             cfg.Tail,
		fullIntensity:    cfg.FullIntensity,
		partialIntensity: cfg.PartialIntensity,
		sweepIntensity:   cfg.SweepIntensity,
	}

	c.display.Clear()
	c.paint(c.focus, c.fullIntensity)

	return c
}

// Mode returns the current mode
func (c *Controller) Mode() Mode {
	return c.mode
}

// Animation returns the selected animation
func (c *Controller) Animation() Animation {
	return c.animation
}

// Speed returns the animation speed; its sign is the direction of travel
func (c *Controller) Speed() int32 {
	return c.speed
}

// Focus returns the position of the leading LED
func (c *Controller) Focus() int {
	return c.focus
}

// Counter returns the frame pacing counter
func (c *Controller) Counter() uint32 {
	return c.counter
}

// Tick runs one controller step: drain the decoder, publish its activity
// to the register file, run the mode handler, then dispatch any new bus
// command.
func (c *Controller) Tick() {
	clicks := c.input.DrainClicks()
	increment := c.input.DrainIncrement()

	if c.regs != nil && (clicks != 0 || increment != 0) {
		c.regs.Accumulate(clicks, increment)
	}

	if clicks != 0 {
		// Each press is one transition; an even number lands back where it started
		if clicks%2 == 1 {
			c.switchMode()
		} else {
			c.clearDisplay()
		}
	}

	c.process(increment)

	c.dispatch()
}

// dispatch handles the latest bus write transaction once
func (c *Controller) dispatch() {
	if c.commands == nil {
		return
	}

	cmd := c.commands.GetCommand()
	if cmd.Seq == c.lastSeq {
		return
	}
	c.lastSeq = cmd.Seq

	switch cmd.Register {
	case protocol.RegValue:
		if cmd.Len != 4 {
			return // short or long payloads have no effect
		}
		RecordEvent(EvtCommand, uint8(cmd.Register), uint32(cmd.Len))
		c.process(protocol.Int32(cmd.Payload()))
	case protocol.RegClicks:
		RecordEvent(EvtCommand, uint8(cmd.Register), uint32(cmd.Len))
		c.switchMode()
	}
}

// Inject feeds an increment into the current mode handler as if it had
// come from the encoder
func (c *Controller) Inject(increment int32) {
	c.process(increment)
}

// SwitchMode toggles between NORMAL and ADJUST
func (c *Controller) SwitchMode() {
	c.switchMode()
}

func (c *Controller) switchMode() {
	if c.mode == ModeNormal {
		c.mode = ModeAdjust
	} else {
		c.mode = ModeNormal
	}
	c.clearDisplay()
	RecordEvent(EvtModeSwitch, 0, uint32(c.mode))
}

func (c *Controller) process(increment int32) {
	switch c.mode {
	case ModeNormal:
		c.processNormal(increment)
	case ModeAdjust:
		c.processAdjust(increment)
	}
}

// processNormal folds rotation into speed and paces animation frames.
// Every tick adds |speed| (at least 1) to the counter; a frame is drawn
// each time the counter reaches the threshold.
func (c *Controller) processNormal(increment int32) {
	c.speed += increment

	if c.regs != nil && c.regs.IlluminationType() == protocol.IlluminationDirect {
		c.paintDirect()
		return
	}
	c.directShown = false

	c.counter += pace(c.speed)
	if c.counter < c.frameThreshold {
		return
	}
	c.counter = 0

	switch c.animation {
	case AnimationComet:
		c.frameComet()
	case AnimationSymmetricComet:
		c.frameSymmetricComet()
	case AnimationSweep:
		c.frameSweep()
	}
}

// processAdjust cycles the animation selection and shows it as a single LED
func (c *Controller) processAdjust(increment int32) {
	if increment != 0 {
		next := (int64(c.animation) + int64(increment)) % animationCount
		if next < 0 {
			next += animationCount
		}
		c.animation = Animation(next)
	}

	c.clearDisplay()
	c.paint(int(c.animation), c.fullIntensity)
}

// paintDirect mirrors the illumination-data register onto the display
func (c *Controller) paintDirect() {
	seq := c.regs.Illumination(c.directFrame[:])
	if c.directShown && seq == c.directSeq {
		return
	}
	c.directSeq = seq
	c.directShown = true

	c.display.Clear()
	for i := 0; i < c.display.Len() && i < len(c.directFrame); i++ {
		c.paint(i, c.directFrame[i])
	}
}

// clearDisplay blanks the display. A direct frame is repainted afterwards
// even when its sequence has not changed.
func (c *Controller) clearDisplay() {
	c.display.Clear()
	c.directShown = false
}

// paint sets one LED, wrapping pos onto the ring
func (c *Controller) paint(pos int, intensity uint8) {
	_ = c.display.SetLED(wrap(pos, c.display.Len()), intensity)
}

// direction returns the sign of speed
func (c *Controller) direction() int {
	switch {
	case c.speed > 0:
		return 1
	case c.speed < 0:
		return -1
	default:
		return 0
	}
}

// pace returns the counter increment for a speed: |speed|, minimum 1
func pace(speed int32) uint32 {
	s := int64(speed)
	if s < 0 {
		s = -s
	}
	if s == 0 {
		return 1
	}
	return uint32(s)
}

// wrap maps pos onto 0..n-1
func wrap(pos, n int) int {
	if n <= 0 {
		return 0
	}
	pos %= n
	if pos < 0 {
		pos += n
	}
	return pos
}
