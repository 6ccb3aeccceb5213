// Package protocol describes the register map the encoder ring exposes on
// its bus, shared by the firmware and by bus master clients
package protocol

// Protocol constants
const (
	BufferSize = 20   // largest payload of a single transaction
	Overread   = 0xFF // byte sent when the master reads past the reply
)

// Access describes which directions a register supports
type Access uint8

const (
	AccessRead  Access = 1 << 0
	AccessWrite Access = 1 << 1

	AccessReadWrite = AccessRead | AccessWrite
)

// Register is a register offset from the device base address
type Register uint8

const (
	RegValue            Register = 0 // 4B BE signed, read-clears
	RegClicks           Register = 1 // 4B BE unsigned, read-clears
	RegIlluminationType Register = 3 // 1B, write only
	RegIlluminationData Register = 4 // up to 20B, write only
)

// Illumination types accepted by RegIlluminationType
const (
	IlluminationAnimation uint8 = 0 // animation engine owns the display
	IlluminationDirect    uint8 = 1 // display mirrors the illumination data bytes
)

// RegisterInfo is one entry of the register map
type RegisterInfo struct {
	Name   string
	Width  int // payload bytes; 0 means variable up to BufferSize
	Access Access
}

// Registers is the complete register map
var Registers = map[Register]RegisterInfo{
	RegValue:            {Name: "value", Width: 4, Access: AccessReadWrite},
	RegClicks:           {Name: "click-count", Width: 4, Access: AccessReadWrite},
	RegIlluminationType: {Name: "illumination-type", Width: 1, Access: AccessWrite},
	RegIlluminationData: {Name: "illumination-data", Width: 0, Access: AccessWrite},
}

// Lookup returns the map entry for reg
func Lookup(reg Register) (RegisterInfo, bool) {
	info, ok := Registers[reg]
	return info, ok
}

// String returns the register name, or "unknown"
func (r Register) String() string {
	if info, ok := Registers[r]; ok {
		return info.Name
	}
	return "unknown"
}

// Readable reports whether the register answers reads
func (i RegisterInfo) Readable() bool {
	return i.Access&AccessRead != 0
}

// Writable reports whether the register accepts writes
func (i RegisterInfo) Writable() bool {
	return i.Access&AccessWrite != 0
}

// Fixed reports whether the register has a fixed payload width
func (i RegisterInfo) Fixed() bool {
	return i.Width > 0
}
