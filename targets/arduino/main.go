//go:build avr && atmega328p

package main

import (
	"context"
	"machine"
	"time"

	"movingcar/core"
	"movingcar/standalone"
	"movingcar/standalone/config"
)

var (
	timers *core.TimerDriver
	exti   *core.ExtiDriver
)

func main() {
	InitDebugUART()

	cfg := boardConfig()
	if err := config.Validate(cfg); err != nil {
		fail(err)
	}

	manager, err := standalone.NewManagerWithConfig(cfg)
	if err != nil {
		fail(err)
	}

	hw := standalone.Hardware{
		Bank:   core.IOBank{},
		Motors: [2]core.MotorDriver{newHBridge(cfg.Motors.Left), newHBridge(cfg.Motors.Right)},
	}
	if err := manager.Initialize(hw); err != nil {
		fail(err)
	}

	timers = manager.Timers()
	exti = manager.Exti()
	installVectors()

	core.DebugPrintln("[CAR] ready, press start")
	manager.Run(context.Background())
}

// boardConfig is the Uno pin map. The runtime keeps Timer0 for its own clock,
// so software PWM moves to Timer2. Both reloads are recomputed for 16 MHz.
func boardConfig() *config.Config {
	cfg := config.Default()
	cfg.Board = core.ATmega328P.Name
	cfg.CPUHz = 16000000

	cfg.LEDs = config.LEDPins{
		ShortSide: core.PinRef{Port: core.PortB, Pin: core.Pin0}, // D8
		LongSide:  core.PinRef{Port: core.PortB, Pin: core.Pin1}, // D9
		Rotate:    core.PinRef{Port: core.PortB, Pin: core.Pin2}, // D10
		Stop:      core.PinRef{Port: core.PortB, Pin: core.Pin5}, // D13, on-board LED
	}
	cfg.Buttons.Start = core.PinRef{Port: core.PortD, Pin: core.Pin3} // D3
	cfg.Buttons.Stop = core.PinRef{Port: core.PortD, Pin: core.Pin4}  // D4
	cfg.Motors = config.MotorPins{
		Left:  core.MotorPins{A: core.PinRef{Port: core.PortD, Pin: core.Pin5}, B: core.PinRef{Port: core.PortD, Pin: core.Pin6}},
		Right: core.MotorPins{A: core.PinRef{Port: core.PortD, Pin: core.Pin7}, B: core.PinRef{Port: core.PortB, Pin: core.Pin4}},
	}

	// 16 MHz / 1024 = 15625 counts/s
	cfg.PWMTimer = config.TimerConfig{ID: core.Timer2, Initial: 256 - 31, Clock: core.ClockDiv1024}       // ~2 ms
	cfg.DelayTimer = config.TimerConfig{ID: core.Timer1, Initial: 65536 - 7812, Clock: core.ClockDiv1024} // ~0.5 s
	cfg.Abort = config.AbortConfig{Line: core.Int0, Edge: core.EdgeFalling}                               // D2
	return cfg
}

// fail reports err and blinks the on-board LED forever.
func fail(err error) {
	core.DebugPrintln("[CAR] " + err.Error())
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(100 * time.Millisecond)
	}
}
