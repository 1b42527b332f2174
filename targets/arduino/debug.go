//go:build avr && atmega328p

package main

import (
	"machine"

	"movingcar/core"
)

const debugBaud = 115200

// InitDebugUART sends the firmware log to the USB serial bridge.
func InitDebugUART() {
	uart := machine.Serial
	if err := uart.Configure(machine.UARTConfig{BaudRate: debugBaud}); err != nil {
		return
	}
	core.SetDebugWriter(func(s string) {
		uart.Write([]byte(s))
		uart.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.DebugPrintln("=== moving car (atmega328p) ===")
}
