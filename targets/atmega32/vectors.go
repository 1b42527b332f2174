//go:build avr && atmega32

package main

import (
	"runtime/interrupt"

	"movingcar/core"
)

// ATmega32 vector numbers, reset is 0.
const (
	vectInt0        = 1
	vectInt1        = 2
	vectInt2        = 3
	vectTimer2Comp  = 4
	vectTimer2Ovf   = 5
	vectTimer1CompA = 7
	vectTimer1Ovf   = 9
	vectTimer0Comp  = 10
	vectTimer0Ovf   = 11
)

func installVectors() {
	interrupt.New(vectInt0, irqInt0)
	interrupt.New(vectInt1, irqInt1)
	interrupt.New(vectInt2, irqInt2)
	interrupt.New(vectTimer2Comp, irqTimer2Comp)
	interrupt.New(vectTimer2Ovf, irqTimer2Ovf)
	interrupt.New(vectTimer1CompA, irqTimer1Comp)
	interrupt.New(vectTimer1Ovf, irqTimer1Ovf)
	interrupt.New(vectTimer0Comp, irqTimer0Comp)
	interrupt.New(vectTimer0Ovf, irqTimer0Ovf)
}

func irqInt0(interrupt.Interrupt)       { handleExti(core.Int0) }
func irqInt1(interrupt.Interrupt)       { handleExti(core.Int1) }
func irqInt2(interrupt.Interrupt)       { handleExti(core.Int2) }
func irqTimer0Comp(interrupt.Interrupt) { handleCompare(core.Timer0) }
func irqTimer0Ovf(interrupt.Interrupt)  { handleOverflow(core.Timer0) }
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
