package core

import "errors"

// MotorDriver drives one DC motor. Target-specific H-bridge drivers implement
// it as well as the two-wire Motor below.
type MotorDriver interface {
	Forward() error
	Backward() error
	Stop() error
}

// MotorPins are the two direction inputs of an H-bridge
type MotorPins struct {
	A PinRef `json:"a" yaml:"a"`
	B PinRef `json:"b" yaml:"b"`
}

// Motor drives a two-wire H-bridge: A high/B low is forward, A low/B high is
// backward, both low is stop.
type Motor struct {
	dio  DIODriver
	pins MotorPins
}

// NewMotor creates a motor on pins
func NewMotor(dio DIODriver, pins MotorPins) *Motor {
	return &Motor{dio: dio, pins: pins}
}

// Init configures both direction pins as outputs
func (m *Motor) Init() error {
	if m == nil || m.dio == nil {
		return ErrNullPtr
	}
	return failed("motor init", errors.Join(
		m.dio.Init(m.pins.A.Port, m.pins.A.Pin, Output),
		m.dio.Init(m.pins.B.Port, m.pins.B.Pin, Output),
	))
}

func (m *Motor) Forward() error { return m.drive(High, Low) }

func (m *Motor) Backward() error { return m.drive(Low, High) }

func (m *Motor) Stop() error { return m.drive(Low, Low) }

func (m *Motor) drive(a, b Level) error {
	if m == nil || m.dio == nil {
		return ErrNullPtr
	}
	return failed("motor", errors.Join(
		m.dio.WritePin(m.pins.A.Port, m.pins.A.Pin, a),
		m.dio.WritePin(m.pins.B.Port, m.pins.B.Pin, b),
	))
}
