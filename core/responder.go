// Bus register responder
// Implements the register map on top of the bus peripheral events
package core

import "rib/protocol"

// Command is a completed write transaction handed to the controller
type Command struct {
	Register protocol.Register
	Data     [protocol.BufferSize]byte
	Len      int
	Seq      uint32 // 0 until the first transaction is published
}

// Payload returns the bytes written in the transaction
func (c *Command) Payload() []byte {
	return c.Data[:c.Len]
}

// ResponderStats counts the non-fatal conditions seen on the bus
type ResponderStats struct {
	Transactions uint32
	Errors       uint32
	Overreads    uint32
	Truncated    uint32
}

type transactionState uint8

const (
	txIdle      transactionState = iota // no transaction, or not addressed to us
	txActive                            // between address match and stop
	txAbandoned                         // bus error seen, waiting for the next address match
)

// Responder answers bus transactions addressed to this device.
//
// AddressMatch, ByteReady, Stop and Error run in interrupt context and own
// the transaction scratch. A finished write transaction is copied into a
// published Command; GetCommand reads that copy from poll context, so it
// always sees a whole transaction even if a new one starts meanwhile.
type Responder struct {
	base uint8
	mask uint8
	regs *RegisterFile

	// Transaction scratch
	state     transactionState
	latched   protocol.Register
	direction BusDirection
	buffer    [protocol.BufferSize]byte
	offset    int
	size      int
	overread  bool
	truncated bool

	// Published handoff
	command Command

	stats ResponderStats
}

// NewResponder creates a responder for the addresses selected by base and
// mask. Set bits of mask are ignored when matching; the register offset is
// the distance of the matched address from base.
func NewResponder(base, mask uint8, regs *RegisterFile) *Responder {
	return &Responder{
		base: base & 0x7F,
		mask: mask & 0x7F,
		regs: regs,
	}
}

// Matches reports whether a 7-bit address selects this device
func (r *Responder) Matches(addr uint8) bool {
	return (addr&0x7F)&^r.mask == r.base&^r.mask
}

// AddressMatch starts a transaction. For reads the reply is produced right
// away so the first data byte is ready when the master clocks it.
func (r *Responder) AddressMatch(addr uint8, dir BusDirection) {
	if r.state == txActive {
		// Repeated start: the previous transaction ends here
		r.finish()
	}

	r.offset = 0
	r.size = 0
	r.overread = false
	r.truncated = false
	r.direction = dir

	if !r.Matches(addr) {
		r.state = txIdle
		return
	}

	r.state = txActive
	r.latched = protocol.Register((addr - r.base) & 0x7F)

	binding, ok := lookupBinding(r.latched)
	if !ok {
		RecordEvent(EvtUnknownReg, uint8(r.latched), uint32(dir))
		return
	}

	if dir == BusRead && binding.info.Readable() && binding.read != nil {
		r.size = binding.read(r.regs, r.buffer[:])
	}
}

// ByteReady moves one data byte. For reads it returns the byte to send;
// for writes it stores in and the return value is unused. Every byte is
// acknowledged.
func (r *Responder) ByteReady(in byte) byte {
	if r.state != txActive {
		return protocol.Overread
	}

	if r.direction == BusRead {
		return r.nextReadByte()
	}

	r.storeWriteByte(in)
	return 0
}

func (r *Responder) nextReadByte() byte {
	if r.offset < r.size {
		b := r.buffer[r.offset]
		r.offset++
		return b
	}

	if !r.overread {
		r.overread = true
		r.stats.Overreads++
		RecordEvent(EvtOverread, uint8(r.latched), uint32(r.size))
	}
	return protocol.Overread
}

func (r *Responder) storeWriteByte(in byte) {
	if r.size >= len(r.buffer) {
		// Accepted on the bus, dropped from storage
		if !r.truncated {
			r.truncated = true
			r.stats.Truncated++
			RecordEvent(EvtTruncated, uint8(r.latched), uint32(r.size))
		}
		return
	}

	r.buffer[r.size] = in
	r.size++

	binding, ok := lookupBinding(r.latched)
	if !ok || !binding.info.Writable() || !binding.info.Fixed() {
		return
	}
	if r.size == binding.info.Width {
		binding.commit(r.regs, r.buffer[:r.size])
		RecordEvent(EvtRegisterWrite, uint8(r.latched), uint32(r.size))
	}
}

// Stop closes the current transaction
func (r *Responder) Stop() {
	if r.state == txActive {
		r.finish()
	}
	r.state = txIdle
}

// Error abandons the current transaction. Nothing is published and no
// retry is attempted; the next address match starts afresh.
func (r *Responder) Error() {
	r.stats.Errors++
	RecordEvent(EvtBusError, uint8(r.latched), uint32(r.size))
	r.state = txAbandoned
}

// finish commits variable-width writes and publishes write transactions
func (r *Responder) finish() {
	r.stats.Transactions++
	if r.direction != BusWrite {
		return
	}

	if binding, ok := lookupBinding(r.latched); ok && binding.info.Writable() && !binding.info.Fixed() {
		binding.commit(r.regs, r.buffer[:r.size])
	}

	r.command.Seq++
	r.command.Register = r.latched
	r.command.Len = r.size
	copy(r.command.Data[:], r.buffer[:r.size])
}

// GetCommand returns a copy of the last completed write transaction.
// It does not block and does not consume the command; callers compare Seq
// to tell new commands from ones already handled.
func (r *Responder) GetCommand() Command {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return r.command
}

// Stats returns the responder counters
func (r *Responder) Stats() ResponderStats {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return r.stats
}

// Service handles every pending event of the bus peripheral.
// Call it from the peripheral's interrupt handler.
func (r *Responder) Service(p BusPeripheral) {
	for {
		ev := p.Pending()
		switch ev {
		case BusNone:
			return
		case BusAddressMatch:
			r.AddressMatch(p.Address(), p.Direction())
		case BusByteReady:
			if r.direction == BusRead {
				p.WriteByte(r.ByteReady(0))
			} else {
				r.ByteReady(p.ReadByte())
			}
		case BusStop:
			r.Stop()
		case BusError:
			r.Error()
		}
		p.Ack(ev)
	}
}
