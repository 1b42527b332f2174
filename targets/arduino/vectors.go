//go:build avr && atmega328p

package main

import (
	"device/avr"
	"runtime/interrupt"

	"movingcar/core"
)

// installVectors routes the AVR interrupt vectors to the drivers. Timer0 is
// left to the runtime.
func installVectors() {
	interrupt.New(avr.IRQ_INT0, irqInt0)
	interrupt.New(avr.IRQ_INT1, irqInt1)
	interrupt.New(avr.IRQ_TIMER1_COMPA, irqTimer1Comp)
	interrupt.New(avr.IRQ_TIMER1_OVF, irqTimer1Ovf)
	interrupt.New(avr.IRQ_TIMER2_COMPA, irqTimer2Comp)
	interrupt.New(avr.IRQ_TIMER2_OVF, irqTimer2Ovf)
}

func irqInt0(interrupt.Interrupt)       { handleExti(core.Int0) }
func irqInt1(interrupt.Interrupt)       { handleExti(core.Int1) }
func irqTimer1Comp(interrupt.Interrupt) { handleCompare(core.Timer1) }
func irqTimer1Ovf(interrupt.Interrupt)  { handleOverflow(core.Timer1) }
func irqTimer2Comp(interrupt.Interrupt) { handleCompare(core.Timer2) }
func irqTimer2Ovf(interrupt.Interrupt)  { handleOverflow(core.Timer2) }

func handleOverflow(id core.TimerID) {
	if timers != nil {
		timers.HandleOverflow(id)
	}
}

func handleCompare(id core.TimerID) {
	if timers != nil {
		timers.HandleCompare(id)
	}
}

func handleExti(l core.ExtiLine) {
	if exti != nil {
		exti.Handle(l)
	}
}
