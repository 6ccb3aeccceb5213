// Rotary encoder input
// Converts edge interrupts into a signed rotation delta and a click count
package core

import "sync/atomic"

// Decoder turns encoder edge interrupts into pending rotation and clicks.
//
// RotationEdge and PressEdge run in interrupt context and only ever add.
// DrainIncrement and DrainClicks run in poll context and only ever subtract
// what they returned, so an edge landing between the load and the subtract
// is kept for the next drain.
type Decoder struct {
	increment int32  // atomic, pending net rotation
	clicks    uint32 // atomic, pending presses, wraps at 2^32
	lockout   uint32 // atomic, ticks left before the next edge is accepted

	companion    PinLevel // encoder B channel
	lockoutTicks uint32
}

// NewDecoder creates a decoder that samples companion on each rotation edge
// and ignores further edges for lockoutTicks ticks after an accepted one.
func NewDecoder(companion PinLevel, lockoutTicks uint32) *Decoder {
	return &Decoder{
		companion:    companion,
		lockoutTicks: lockoutTicks,
	}
}

// RotationEdge handles an edge on the encoder A channel.
// The B level at the edge gives the direction: high counts -1, low counts +1.
func (d *Decoder) RotationEdge() {
	if !d.accept() {
		return
	}

	var step int32 = 1
	if d.companion != nil && d.companion.Get() {
		step = -1
	}
	atomic.AddInt32(&d.increment, step)
}

// PressEdge handles an edge on the push switch
func (d *Decoder) PressEdge() {
	if !d.accept() {
		return
	}
	atomic.AddUint32(&d.clicks, 1)
}

// accept starts a new lockout window if none is running
func (d *Decoder) accept() bool {
	if atomic.LoadUint32(&d.lockout) != 0 {
		return false
	}
	atomic.StoreUint32(&d.lockout, d.lockoutTicks)
	return true
}

// Tick counts the lockout window down by one, stopping at zero
func (d *Decoder) Tick() {
	for {
		remaining := atomic.LoadUint32(&d.lockout)
		if remaining == 0 {
			return
		}
		if atomic.CompareAndSwapUint32(&d.lockout, remaining, remaining-1) {
			return
		}
	}
}

// Locked reports whether edges are currently being ignored
func (d *Decoder) Locked() bool {
	return atomic.LoadUint32(&d.lockout) != 0
}

// DrainIncrement returns the rotation accumulated since the last drain and
// removes it from the pending total
func (d *Decoder) DrainIncrement() int32 {
	result := atomic.LoadInt32(&d.increment)
	if result != 0 {
		atomic.AddInt32(&d.increment, -result)
	}
	return result
}

// DrainClicks returns the presses counted since the last drain and removes
// them from the pending total
func (d *Decoder) DrainClicks() uint32 {
	result := atomic.LoadUint32(&d.clicks)
	if result != 0 {
		atomic.AddUint32(&d.clicks, -result)
	}
	return result
}
