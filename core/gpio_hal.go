package core

// PinMask is a set of pins within one GPIO port, one bit per pin.
type PinMask uint32

// PortDriver is the abstract GPIO port interface the display scanner uses.
// Each call maps onto a single set/clear register write on the target so
// that a whole phase is switched in one store.
type PortDriver interface {
	// SetOutput drives the masked pins high
	SetOutput(mask PinMask)

	// ClearOutput drives the masked pins low
	ClearOutput(mask PinMask)

	// SetDirection turns the masked pins into outputs
	SetDirection(mask PinMask)

	// ClearDirection returns the masked pins to high impedance inputs
	ClearDirection(mask PinMask)
}

// PinLevel reads the current level of a single input pin.
// machine.Pin satisfies this interface on TinyGo targets.
type PinLevel interface {
	Get() bool
}
