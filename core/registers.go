package core

import "rib/protocol"

// RegisterFile holds the values behind the bus register map.
// Bus reads and writes happen in interrupt context; the controller
// accumulates into it from poll context under a critical section.
type RegisterFile struct {
	value            int32
	clicks           uint32
	illuminationType uint8
	illumination     [protocol.BufferSize]byte
	illuminationSeq  uint32 // bumped on every illumination-data commit
}

// registerBinding attaches behaviour to one protocol register
type registerBinding struct {
	info protocol.RegisterInfo

	// read fills buf with the reply and returns its length
	read func(f *RegisterFile, buf []byte) int

	// commit stores a completed write payload
	commit func(f *RegisterFile, data []byte)
}

// registerBindings maps every register offset to its behaviour
var registerBindings = map[protocol.Register]registerBinding{
	protocol.RegValue: {
		info: protocol.Registers[protocol.RegValue],
		read: func(f *RegisterFile, buf []byte) int {
			protocol.PutInt32(buf, f.value)
			f.value = 0
			return 4
		},
		commit: func(f *RegisterFile, data []byte) {
			f.value = protocol.Int32(data)
		},
	},
	protocol.RegClicks: {
		info: protocol.Registers[protocol.RegClicks],
		read: func(f *RegisterFile, buf []byte) int {
			protocol.PutUint32(buf, f.clicks)
			f.clicks = 0
			return 4
		},
		commit: func(f *RegisterFile, data []byte) {
			f.clicks = protocol.Uint32(data)
		},
	},
	protocol.RegIlluminationType: {
		info: protocol.Registers[protocol.RegIlluminationType],
		commit: func(f *RegisterFile, data []byte) {
			f.illuminationType = data[0]
		},
	},
	protocol.RegIlluminationData: {
		info: protocol.Registers[protocol.RegIlluminationData],
		commit: func(f *RegisterFile, data []byte) {
			n := copy(f.illumination[:], data)
			for i := n; i < len(f.illumination); i++ {
				f.illumination[i] = 0
			}
			f.illuminationSeq++
		},
	},
}

// lookupBinding returns the binding for a register offset
func lookupBinding(reg protocol.Register) (registerBinding, bool) {
	b, ok := registerBindings[reg]
	return b, ok
}

// Accumulate adds newly drained encoder activity to the read-clears registers
func (f *RegisterFile) Accumulate(clicks uint32, increment int32) {
	state := disableInterrupts()
	f.clicks += clicks
	f.value += increment
	restoreInterrupts(state)
}

// Value returns the rotation accumulator
func (f *RegisterFile) Value() int32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.value
}

// Clicks returns the click accumulator
func (f *RegisterFile) Clicks() uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.clicks
}

// IlluminationType returns the selected illumination behaviour
func (f *RegisterFile) IlluminationType() uint8 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	return f.illuminationType
}

// Illumination copies the direct illumination frame into frame and returns
// the commit sequence it belongs to
func (f *RegisterFile) Illumination(frame []byte) uint32 {
	state := disableInterrupts()
	defer restoreInterrupts(state)
	copy(frame, f.illumination[:])
	return f.illuminationSeq
}
