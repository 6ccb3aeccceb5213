package protocol

import "testing"

func TestRegisterMap(t *testing.T) {
	tests := []struct {
		reg      Register
		name     string
		width    int
		readable bool
		writable bool
	}{
		{RegValue, "value", 4, true, true},
		{RegClicks, "click-count", 4, true, true},
		{RegIlluminationType, "illumination-type", 1, false, true},
		{RegIlluminationData, "illumination-data", 0, false, true},
	}

	for _, tt := range tests {
		info, ok := Lookup(tt.reg)
		if !ok {
			t.Fatalf("register %d missing from map", tt.reg)
		}
		if info.Name != tt.name || tt.reg.String() != tt.name {
			t.Errorf("register %d: expected name %q, got %q", tt.reg, tt.name, info.Name)
		}
		if info.Width != tt.width {
			t.Errorf("%s: expected width %d, got %d", tt.name, tt.width, info.Width)
		}
		if info.Readable() != tt.readable || info.Writable() != tt.writable {
			t.Errorf("%s: unexpected access %b", tt.name, info.Access)
		}
	}

	if _, ok := Lookup(2); ok {
		t.Error("offset 2 should not be mapped")
	}
	if Register(2).String() != "unknown" {
		t.Errorf("expected unknown name for offset 2, got %q", Register(2).String())
	}
}

func TestBigEndianCodec(t *testing.T) {
	buf := make([]byte, 4)

	PutInt32(buf, 256)
	if buf[0] != 0 || buf[1] != 0 || buf[2] != 1 || buf[3] != 0 {
		t.Errorf("expected 00 00 01 00, got % x", buf)
	}

	PutInt32(buf, -2)
	if Int32(buf) != -2 {
		t.Errorf("expected -2, got %d", Int32(buf))
	}
	if buf[0] != 0xFF || buf[3] != 0xFE {
		t.Errorf("expected ff ff ff fe, got % x", buf)
	}

	PutUint32(buf, 0xDEADBEEF)
	if Uint32(buf) != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got %#x", Uint32(buf))
	}
}
