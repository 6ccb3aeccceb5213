package serial

import (
	"bufio"
	"io"
	"strings"
)

// Port is a serial connection to the board's debug console.
// Implementations: native (github.com/tarm/serial) or an in-memory pipe in
// tests.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the debug console settings
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 0,
	}
}

// Monitor copies console lines from r to handle until r is exhausted.
// Carriage returns are stripped and blank lines skipped. Only lines with
// one of the given prefixes are passed on; no prefixes passes everything.
func Monitor(r io.Reader, handle func(line string), prefixes ...string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || !hasPrefix(line, prefixes) {
			continue
		}
		handle(line)
	}
	return scanner.Err()
}

func hasPrefix(line string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
