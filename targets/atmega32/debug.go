//go:build avr && atmega32

package main

import (
	"runtime/volatile"
	"unsafe"

	"movingcar/core"
)

// USART registers (data space addresses).
var (
	udr   = (*volatile.Register8)(unsafe.Pointer(uintptr(0x2C)))
	ucsra = (*volatile.Register8)(unsafe.Pointer(uintptr(0x2B)))
	ucsrb = (*volatile.Register8)(unsafe.Pointer(uintptr(0x2A)))
	ubrrl = (*volatile.Register8)(unsafe.Pointer(uintptr(0x29)))
	ucsrc = (*volatile.Register8)(unsafe.Pointer(uintptr(0x40)))
)

const (
	udre  = 1 << 5
	txen  = 1 << 3
	ursel = 1 << 7

	// 38400 baud at 8 MHz, 0.2% error.
	ubrr = 12
)

// InitDebugUART enables the USART transmitter (TXD, PD1) for the log.
func InitDebugUART() {
	ubrrl.Set(ubrr)
	ucsrc.Set(ursel | 0x06) // 8N1
	ucsrb.Set(txen)

	core.SetDebugWriter(func(s string) {
		writeString(s)
		writeString("\r\n")
	})
	core.SetDebugEnabled(true)
	core.DebugPrintln("=== moving car (atmega32) ===")
}

func writeString(s string) {
	for i := 0; i < len(s); i++ {
		for ucsra.Get()&udre == 0 {
		}
		udr.Set(s[i])
	}
}
