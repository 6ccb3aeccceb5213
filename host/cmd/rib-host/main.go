package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rib/driver"
	"rib/host/i2cbus"
	"rib/host/serial"
	"rib/protocol"
)

var (
	busName = flag.String("bus", "", "I2C bus name (empty selects the first bus)")
	address = flag.Uint("addr", driver.DefaultAddress, "Board base address")
	device  = flag.String("device", "/dev/ttyACM0", "Debug console serial device")
	baud    = flag.Int("baud", 115200, "Debug console baud rate (ignored for USB CDC)")
	events  = flag.Bool("events", false, "monitor: show only event ring lines")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	if args[0] == "monitor" {
		err = monitor()
	} else {
		err = run(args[0], args[1:])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: rib-host [flags] <command> [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  value              Read and clear the rotation value")
	fmt.Fprintln(os.Stderr, "  clicks             Read and clear the click count")
	fmt.Fprintln(os.Stderr, "  set-value N        Write the value register (applied as an increment)")
	fmt.Fprintln(os.Stderr, "  set-clicks N       Write the click register (toggles the mode)")
	fmt.Fprintln(os.Stderr, "  toggle             Toggle NORMAL/ADJUST")
	fmt.Fprintln(os.Stderr, "  illuminate HEX...  Show intensities directly, one byte per LED")
	fmt.Fprintln(os.Stderr, "  animate            Return to the built-in animation")
	fmt.Fprintln(os.Stderr, "  monitor            Print the debug console")
	fmt.Fprintln(os.Stderr, "\nFlags:")
	flag.PrintDefaults()
}

// run executes one register command on the board
func run(cmd string, args []string) error {
	if *address > 0x7F {
		return fmt.Errorf("address %#x is not a 7-bit address", *address)
	}

	bus, err := i2cbus.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev := driver.New(bus, uint16(*address))

	switch cmd {
	case "value":
		v, err := dev.Value()
		if err != nil {
			return err
		}
		fmt.Println(v)

	case "clicks":
		n, err := dev.Clicks()
		if err != nil {
			return err
		}
		fmt.Println(n)

	case "set-value":
		if len(args) != 1 {
			return fmt.Errorf("set-value takes one argument")
		}
		v, err := strconv.ParseInt(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("parse value: %w", err)
		}
		return dev.SetValue(int32(v))

	case "set-clicks":
		if len(args) != 1 {
			return fmt.Errorf("set-clicks takes one argument")
		}
		n, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("parse clicks: %w", err)
		}
		return dev.SetClicks(uint32(n))

	case "toggle":
		return dev.ToggleMode()

	case "illuminate":
		frame, err := parseFrame(args)
		if err != nil {
			return err
		}
		return dev.SetIllumination(protocol.IlluminationDirect, frame)

	case "animate":
		return dev.SetIllumination(protocol.IlluminationAnimation, nil)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// parseFrame reads one intensity per argument, e.g. "ff 80 0x10"
func parseFrame(args []string) ([]byte, error) {
	if len(args) > protocol.BufferSize {
		return nil, driver.ErrFrameTooLong
	}

	frame := make([]byte, len(args))
	for i, a := range args {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(a), "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("LED %d: %w", i, err)
		}
		frame[i] = byte(v)
	}
	return frame, nil
}

// monitor prints the debug console until the port closes
func monitor() error {
	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	port, err := serial.Open(cfg)
	if err != nil {
		return err
	}
	defer port.Close()

	fmt.Printf("Monitoring %s at %d baud...\n", cfg.Device, cfg.Baud)

	if err := port.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	var prefixes []string
	if *events {
		prefixes = append(prefixes, "[EVENT]")
	}
	return serial.Monitor(port, func(line string) {
		fmt.Println(line)
	}, prefixes...)
}
