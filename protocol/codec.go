package protocol

import "encoding/binary"

// PutInt32 encodes v big-endian into the first 4 bytes of buf
func PutInt32(buf []byte, v int32) {
	binary.BigEndian.PutUint32(buf, uint32(v))
}

// PutUint32 encodes v big-endian into the first 4 bytes of buf
func PutUint32(buf []byte, v uint32) {
	binary.BigEndian.PutUint32(buf, v)
}

// Int32 decodes a big-endian signed value from the first 4 bytes of buf
func Int32(buf []byte) int32 {
	return int32(binary.BigEndian.Uint32(buf))
}

// Uint32 decodes a big-endian unsigned value from the first 4 bytes of buf
func Uint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}
