package core

import "sync/atomic"

// TickSource is an 8-bit wrapping counter shared between an interrupt
// handler (the producer, which only calls Increment) and the main loop (the
// consumer, which samples and resets it).
type TickSource struct {
	n atomic.Uint32
}

// Increment advances the counter and returns the new value. Interrupt context.
func (t *TickSource) Increment() uint8 {
	return uint8(t.n.Add(1))
}

// Sample returns the current value
func (t *TickSource) Sample() uint8 {
	return uint8(t.n.Load())
}

// Store overwrites the counter
func (t *TickSource) Store(v uint8) {
	t.n.Store(uint32(v))
}

// Reset zeroes the counter
func (t *TickSource) Reset() {
	t.n.Store(0)
}

// ResetAll zeroes every source
func ResetAll(sources ...*TickSource) {
	for _, s := range sources {
		s.Reset()
	}
}
