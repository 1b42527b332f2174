package serial

import (
	"io"
)

// Port is the link to a car controller's debug UART. The firmware only
// writes, so the host side mostly reads.
type Port interface {
	io.ReadWriteCloser
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate of the firmware log UART
	Baud int

	// Read timeout in milliseconds (0 = blocking). An idle timeout surfaces
	// as a zero-byte io.EOF from Read.
	ReadTimeout int
}

// Log baud rates of the firmware targets
const (
	BaudATmega32 = 38400  // 8 MHz USART, UBRR 12
	BaudArduino  = 115200 // USB serial bridge
)

// DefaultConfig returns the configuration for an Arduino-class board
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        BaudArduino,
		ReadTimeout: 100,
	}
}

// BaudFor returns the log baud rate of a board by layout name
func BaudFor(board string) int {
	if board == "atmega32" {
		return BaudATmega32
	}
	return BaudArduino
}
