//go:build avr && atmega328p

package main

import (
	"machine"

	"tinygo.org/x/drivers/l9110x"

	"movingcar/core"
)

// hbridge adapts an L9110 motor channel to core.MotorDriver.
type hbridge struct {
	dev l9110x.Device
}

func newHBridge(pins core.MotorPins) *hbridge {
	h := &hbridge{dev: l9110x.New(machinePin(pins.A), machinePin(pins.B))}
	h.dev.Configure()
	return h
}

func (h *hbridge) Forward() error {
	h.dev.Forward()
	return nil
}

func (h *hbridge) Backward() error {
	h.dev.Backward()
	return nil
}

func (h *hbridge) Stop() error {
	h.dev.Stop()
	return nil
}

func machinePin(p core.PinRef) machine.Pin {
	switch p.Port {
	case core.PortB:
		return machine.PB0 + machine.Pin(p.Pin)
	case core.PortC:
		return machine.PC0 + machine.Pin(p.Pin)
	default:
		return machine.PD0 + machine.Pin(p.Pin)
	}
}
