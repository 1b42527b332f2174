package core

import "strings"

// Port identifies a digital I/O port
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortCount
)

// Pin identifies a bit inside a port
type Pin uint8

const (
	Pin0 Pin = iota
	Pin1
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	PinCount
)

// Level is a logic level
type Level uint8

const (
	Low Level = iota
	High
)

// Direction is a pin direction
type Direction uint8

const (
	Input Direction = iota
	Output
)

// PinRef is a (port, pin) pair, written "PA5" in configuration files
type PinRef struct {
	Port Port
	Pin  Pin
}

func (p PinRef) String() string {
	return "P" + string(rune('A'+p.Port)) + string(rune('0'+p.Pin))
}

// UnmarshalText parses "PA5" or "A5". Range checks are left to the DIO driver
// so an out-of-range reference reports the same error as a direct call.
func (p *PinRef) UnmarshalText(text []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(text)))
	s = strings.TrimPrefix(s, "P")
	if len(s) != 2 || s[0] < 'A' || s[0] > 'Z' || s[1] < '0' || s[1] > '9' {
		return wrapErr("pin "+string(text), ErrNOK)
	}
	p.Port = Port(s[0] - 'A')
	p.Pin = Pin(s[1] - '0')
	return nil
}

func (p PinRef) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// DIODriver is the digital I/O capability the HAL builds on
type DIODriver interface {
	// Init sets the pin direction.
	Init(port Port, pin Pin, dir Direction) error

	// WritePin drives an output pin (or the pull-up of an input pin).
	WritePin(port Port, pin Pin, level Level) error

	// ReadPin samples the pin.
	ReadPin(port Port, pin Pin) (Level, error)

	// TogglePin inverts an output pin.
	TogglePin(port Port, pin Pin) error
}
