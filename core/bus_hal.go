package core

// BusEvent is a condition raised by the low-level bus peripheral.
type BusEvent uint8

const (
	BusNone         BusEvent = iota // peripheral not ready, nothing pending
	BusAddressMatch                 // our address was seen in a transaction header
	BusByteReady                    // a byte was received, or one is wanted for transmit
	BusStop                         // stop condition closed the transaction
	BusError                        // protocol fault signalled by the hardware
)

// BusDirection is the data direction of a transaction as seen by the bus master.
type BusDirection uint8

const (
	BusWrite BusDirection = iota // master writes, we receive
	BusRead                      // master reads, we transmit
)

// BusPeripheral is the abstract bus peripheral interface the responder drives.
// Platform-specific implementations wrap the hardware registers; any
// synchronization the hardware needs is reported through Pending instead of
// being waited on, so callers choose how to wait.
type BusPeripheral interface {
	// Pending returns the highest priority pending event, or BusNone
	Pending() BusEvent

	// Address returns the 7-bit address latched by the last address match
	Address() uint8

	// Direction returns the direction of the current transaction
	Direction() BusDirection

	// ReadByte returns the byte received from the master
	ReadByte() byte

	// WriteByte queues a byte for transmission to the master
	WriteByte(b byte)

	// Ack acknowledges the event and releases the bus clock
	Ack(ev BusEvent)
}
