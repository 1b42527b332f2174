package standalone

import (
	"movingcar/core"
	"movingcar/sequencer"
)

// Hardware is what a target hands to the manager
type Hardware struct {
	Bank core.RegisterBank // Peripheral registers (IOBank on silicon, MemoryBank on host)

	// Motors replaces the two-wire DIO motors built from the pin map, for
	// boards that carry their own H-bridge driver. Left, then right.
	Motors [2]core.MotorDriver
}

// CarState is a snapshot of the car for status output
type CarState struct {
	State    sequencer.RunState
	Maneuver sequencer.Maneuver // Last maneuver dispatched
	Phase    core.PWMPhase      // Duty-cycle phase of a pulsing maneuver

	Delay    uint8 // Delay ticks since start
	PWMTicks uint8 // PWM ticks into the current window
	Faults   uint32

	PWMTimer   core.TimerState
	DelayTimer core.TimerState
	AbortArmed bool // External interrupt unmasked
}
