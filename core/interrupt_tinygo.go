//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts opens a critical section against the pin and bus
// interrupt handlers
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts closes a critical section opened by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
