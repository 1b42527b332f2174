//go:build !tinygo

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// NativePort is a tty opened through tarm/serial
type NativePort struct {
	port *serial.Port
}

// Open opens the debug UART of a controller
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("no serial device given")
	}

	serialConfig := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port}, nil
}

// Read returns log bytes; (0, io.EOF) means the read timeout passed with the
// line idle
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write sends bytes to the controller
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close releases the device
func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}
