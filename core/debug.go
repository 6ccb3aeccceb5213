// Debug console and event ring
// The console is a line sink installed by the target (USB CDC, UART);
// the event ring collects interrupt-context conditions for later printing.
package core

// DebugWriter emits one console line
type DebugWriter func(string)

// Event captures something interrupt context wants reported later
type Event struct {
	Kind     uint8  // Event kind code
	Register uint8  // Register offset involved, if any
	Tick     uint32 // Firmware tick at event
	Value    uint32 // Kind-dependent value
}

// Event kind codes
const (
	EvtBusError      = 1 // transaction abandoned on a bus error
	EvtOverread      = 2 // master read past the reply, sent 0xFF
	EvtTruncated     = 3 // write exceeded the transaction buffer
	EvtUnknownReg    = 4 // transaction addressed an unmapped register
	EvtModeSwitch    = 5 // controller changed mode
	EvtCommand       = 6 // controller dispatched a bus command
	EvtRegisterWrite = 7 // fixed-width register committed
)

// EventRingSize is the number of most recent events kept
const EventRingSize = 32

// consoleQueueDepth is the number of lines DebugAsync buffers
const consoleQueueDepth = 16

var (
	debugPrintln DebugWriter = func(string) {}
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventClock    func() uint32

	// nil until InitAsyncDebug
	debugChan chan string
)

// SetDebugWriter installs the console line sink
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled turns console output on or off. The event ring records
// regardless.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// InitAsyncDebug starts the goroutine that feeds queued lines to the
// console writer. Call it once after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, consoleQueueDepth)
	go func() {
		for line := range debugChan {
			debugPrintln(line)
		}
	}()
}

// DebugPrintln writes a line to the console synchronously
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// DebugAsync queues a line for the console goroutine. It never blocks:
// with the queue full the line is dropped.
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// setEventClock sets the tick source stamped on recorded events
func setEventClock(clock func() uint32) {
	eventClock = clock
}

// RecordEvent captures an event in the ring buffer.
// It never blocks and never allocates, so interrupt handlers may call it.
func RecordEvent(kind, register uint8, value uint32) {
	var tick uint32
	if eventClock != nil {
		tick = eventClock()
	}

	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:     kind,
		Register: register,
		Tick:     tick,
		Value:    value,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns the recorded events from oldest to newest
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	var out []Event
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue // Empty slot
		}
		out = append(out, evt)
	}
	return out
}

// eventName returns the printable name of an event kind
func eventName(kind uint8) string {
	switch kind {
	case EvtBusError:
		return "BUS_ERROR"
	case EvtOverread:
		return "OVERREAD"
	case EvtTruncated:
		return "TRUNCATED"
	case EvtUnknownReg:
		return "UNKNOWN_REG"
	case EvtModeSwitch:
		return "MODE"
	case EvtCommand:
		return "COMMAND"
	case EvtRegisterWrite:
		return "REG_WRITE"
	default:
		return "UNKNOWN"
	}
}

// DumpEventRing outputs the event ring buffer. Call from poll context only.
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln(FormatEvent(evt))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// FormatEvent renders one event as a console line
func FormatEvent(evt Event) string {
	return "[EVENT] " + eventName(evt.Kind) +
		" reg=" + itoa(int(evt.Register)) +
		" tick=" + utoa(evt.Tick) +
		" value=" + utoa(evt.Value)
}

// DrainEvents returns the recorded events, oldest first, and empties the
// ring in the same critical section
func DrainEvents() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	var out []Event
	for i := uint8(0); i < EventRingSize; i++ {
		idx := (eventRingHead + i) % EventRingSize
		if eventRing[idx].Kind != 0 {
			out = append(out, eventRing[idx])
		}
		eventRing[idx] = Event{}
	}
	eventRingHead = 0
	return out
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
