package core

import "sync/atomic"

// Duty is a software PWM duty cycle: On ticks active out of a Window of ticks.
type Duty struct {
	On     uint8 `json:"on" yaml:"on"`
	Window uint8 `json:"window" yaml:"window"`
}

// Valid reports whether the duty fits its window.
func (d Duty) Valid() bool { return d.Window > 0 && d.On <= d.Window }

// PWMPhase is the state of a software PWM window.
type PWMPhase uint8

const (
	PhaseIdle PWMPhase = iota
	PhaseOn
	PhaseOff
	PhaseDone
)

var phaseNames = []string{"idle", "on", "off", "done"}

func (p PWMPhase) String() string { return enumName(phaseNames, int(p)) }

// SoftPWM runs one bounded duty-cycle window off a tick source. The tick
// handler advances the phase; the main loop only reads it, so nothing
// busy-waits on the counter.
type SoftPWM struct {
	ticks *TickSource
	duty  atomic.Uint32
	phase atomic.Uint32
}

// NewSoftPWM creates a software PWM counting on ticks.
func NewSoftPWM(ticks *TickSource) *SoftPWM {
	return &SoftPWM{ticks: ticks}
}

// Begin zeroes the tick counter and opens a window with duty d. The tick
// timer must not be running yet.
func (p *SoftPWM) Begin(d Duty) {
	p.ticks.Reset()
	p.duty.Store(uint32(d.On)<<8 | uint32(d.Window))
	p.phase.Store(uint32(phaseAt(d, 0)))
}

// Tick is the tick timer's handler. Interrupt context.
func (p *SoftPWM) Tick() {
	n := p.ticks.Increment()
	cur := PWMPhase(p.phase.Load())
	if cur == PhaseIdle || cur == PhaseDone {
		return
	}
	// A concurrent Cancel wins over the tick.
	p.phase.CompareAndSwap(uint32(cur), uint32(phaseAt(p.loadDuty(), n)))
}

// Phase returns the current phase.
func (p *SoftPWM) Phase() PWMPhase {
	return PWMPhase(p.phase.Load())
}

// Cancel closes the window and zeroes the tick counter.
func (p *SoftPWM) Cancel() {
	p.phase.Store(uint32(PhaseIdle))
	p.ticks.Reset()
}

func (p *SoftPWM) loadDuty() Duty {
	v := p.duty.Load()
	return Duty{On: uint8(v >> 8), Window: uint8(v)}
}

func phaseAt(d Duty, n uint8) PWMPhase {
	switch {
	case n < d.On:
		return PhaseOn
	case n < d.Window:
		return PhaseOff
	default:
		return PhaseDone
	}
}
