package core

import "sync/atomic"

// bankSize covers the full data-space I/O window of the supported parts
// (extended I/O on the ATmega328P ends at 0xC6).
const bankSize = 0x100

// MemoryBank is a register file backed by memory. Interrupt-flag registers
// declared by the layout keep their write-one-to-clear behaviour so drivers see
// the same semantics as on silicon.
type MemoryBank struct {
	cells [bankSize]memCell
}

type memCell struct {
	v   atomic.Uint32
	w1c bool
}

func (c *memCell) Get() uint8 { return uint8(c.v.Load()) }

func (c *memCell) Set(value uint8) {
	if !c.w1c {
		c.v.Store(uint32(value))
		return
	}
	for {
		old := c.v.Load()
		if c.v.CompareAndSwap(old, old&^uint32(value)) {
			return
		}
	}
}

// NewMemoryBank creates a zeroed register file for the given layout
func NewMemoryBank(l *Layout) *MemoryBank {
	b := &MemoryBank{}
	if l != nil {
		for _, addr := range l.flagRegisters() {
			b.cells[addr].w1c = true
		}
	}
	return b
}

// Reg returns the register at addr. Addresses outside the bank panic, since a
// layout pointing there is a programming error.
func (b *MemoryBank) Reg(addr uint16) Register8 {
	return &b.cells[addr]
}

// Peek reads a register without side effects
func (b *MemoryBank) Peek(addr uint16) uint8 {
	return b.cells[addr].Get()
}

// Poke stores a raw value, bypassing write-one-to-clear semantics. Used by
// the simulator to model hardware-driven updates (input pins, counters).
func (b *MemoryBank) Poke(addr uint16, value uint8) {
	b.cells[addr].v.Store(uint32(value))
}

// Raise sets bits the way hardware does when an event latches a flag
func (b *MemoryBank) Raise(addr uint16, mask uint8) {
	c := &b.cells[addr]
	for {
		old := c.v.Load()
		if c.v.CompareAndSwap(old, old|uint32(mask)) {
			return
		}
	}
}
