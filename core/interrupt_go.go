//go:build !tinygo

package core

// State stands in for the saved interrupt mask when running on a host
type State uintptr

// disableInterrupts has nothing to mask on a host; tests drive interrupt
// entry points directly from one goroutine
func disableInterrupts() State {
	return 0
}

func restoreInterrupts(State) {}
