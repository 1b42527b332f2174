//go:build tinygo && avr

package core

import (
	"runtime/volatile"
	"unsafe"
)

// IOBank maps layout addresses directly onto the AVR data space.
type IOBank struct{}

// Reg returns the volatile register at addr.
func (IOBank) Reg(addr uint16) Register8 {
	return (*volatile.Register8)(unsafe.Pointer(uintptr(addr)))
}
