//go:build !tinygo

package core

import "sync"

// State is a placeholder for interrupt state on regular Go
type State uintptr

// critical stands in for the global interrupt mask on regular Go, so a
// simulated interrupt running on another goroutine cannot interleave with a
// critical section. Sections must not nest.
var critical sync.Mutex

// disableInterrupts enters the critical section
func disableInterrupts() State {
	critical.Lock()
	return 0
}

// restoreInterrupts leaves the critical section
func restoreInterrupts(state State) {
	critical.Unlock()
}
