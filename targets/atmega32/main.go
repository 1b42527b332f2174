//go:build avr && atmega32

package main

import (
	"context"

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

	cfg := config.Default()
	if err := config.Validate(cfg); err != nil {
		fail(err)
	}

	manager, err := standalone.NewManagerWithConfig(cfg)
	if err != nil {
		fail(err)
	}
	if err := manager.Initialize(standalone.Hardware{Bank: core.IOBank{}}); err != nil {
		fail(err)
	}

	timers = manager.Timers()
	exti = manager.Exti()
	installVectors()

	core.DebugPrintln("[CAR] ready, press start")
	manager.Run(context.Background())
}

// fail reports err and blinks the stop LED forever. The pin is driven through
// the registers directly since the DIO driver may not exist yet.
func fail(err error) {
	core.DebugPrintln("[CAR] " + err.Error())
	led := config.Default().LEDs.Stop
	dio := core.NewDIO(core.ATmega32, core.IOBank{})
	dio.Init(led.Port, led.Pin, core.Output)
	for {
		dio.TogglePin(led.Port, led.Pin)
		spin(200000)
	}
}

//go:noinline
func spin(n uint32) {
	for i := uint32(0); i < n; i++ {
	}
}
