// Package sequencer drives the car through its itinerary. Two timer ticks
// feed it: a fast PWM tick that shapes each maneuver's duty cycle and a slow
// delay tick that walks the schedule. An external interrupt aborts the run.
package sequencer

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"sync/atomic"

	"movingcar/core"
)

// RunState is the top-level state of the sequencer.
type RunState uint8

const (
	Stopped RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Car is the motor pair the sequencer drives.
type Car interface {
	Forward() error
	ReverseRight() error
	Stop() error
}

// Light is an indicator output.
type Light interface {
	On() error
	Off() error
}

// Button is a debounced push button.
type Button interface {
	Pressed() (bool, error)
}

// Lights are the four maneuver indicators. Exactly one is lit while a
// maneuver runs.
type Lights struct {
	ShortSide Light
	LongSide  Light
	Rotate    Light
	Stop      Light
}

// Deps are the collaborators of a Sequencer. StopButton is optional.
type Deps struct {
	Car         Car
	Lights      Lights
	StartButton Button
	StopButton  Button

	// PWM ticks every couple of milliseconds while a maneuver pulses.
	PWM core.Timer
	// Delay ticks every half second while running.
	Delay core.Timer
	// Abort stops the car from interrupt context.
	Abort core.ExternalInterrupt
}

// Fault sources recorded with core.EvtFault.
const (
	srcCar uint8 = iota + 1
	srcLight
	srcButton
	srcPWMTimer
	srcDelayTimer
	srcAbort
)

var srcNames = []string{"", "car", "light", "button", "pwm timer", "delay timer", "abort line"}

// FaultSource names the collaborator a fault event was recorded against.
func FaultSource(code uint8) string {
	if int(code) < len(srcNames) && code != 0 {
		return srcNames[code]
	}
	return "unknown"
}

// Sequencer is the application state machine. Step runs in the main loop;
// the tick and abort handlers run in interrupt context and only touch the
// tick sources, the software PWM and the run state.
type Sequencer struct {
	deps Deps
	cfg  Config

	pwm   core.TickSource
	delay core.TickSource
	soft  *core.SoftPWM
	state atomic.Uint32

	faults atomic.Uint32

	// Main loop only.
	armed   bool
	current Maneuver
	pulsing Maneuver
	windows uint8 // duty windows completed by current
	seen    RunState
}

// New wires a sequencer to its collaborators and registers its handlers
// with the timers and the abort line.
func New(deps Deps, cfg Config) (*Sequencer, error) {
	if deps.Car == nil || deps.StartButton == nil || deps.PWM == nil ||
		deps.Delay == nil || deps.Abort == nil {
		return nil, core.ErrNullPtr
	}
	l := deps.Lights
	if l.ShortSide == nil || l.LongSide == nil || l.Rotate == nil || l.Stop == nil {
		return nil, core.ErrNullPtr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Sequencer{deps: deps, cfg: cfg}
	s.soft = core.NewSoftPWM(&s.pwm)

	err := errors.Join(
		deps.PWM.OnFire(s.onPWMTick),
		deps.Delay.OnFire(s.onDelayTick),
		deps.Abort.OnFire(s.onAbort),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// State returns the run state.
func (s *Sequencer) State() RunState {
	return RunState(s.state.Load())
}

// Delay samples the delay tick counter.
func (s *Sequencer) Delay() uint8 { return s.delay.Sample() }

// PWMTicks samples the PWM tick counter.
func (s *Sequencer) PWMTicks() uint8 { return s.pwm.Sample() }

// Current returns the last maneuver dispatched since the car started.
func (s *Sequencer) Current() Maneuver { return s.current }

// Phase returns the duty-cycle phase of the pulsing maneuver.
func (s *Sequencer) Phase() core.PWMPhase { return s.soft.Phase() }

// Faults returns how many collaborator errors were seen.
func (s *Sequencer) Faults() uint32 { return s.faults.Load() }

// Run steps the sequencer until ctx ends, then stops the car.
func (s *Sequencer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		default:
		}
		s.Step()
		runtime.Gosched()
	}
}

// Step performs one main-loop iteration. It never waits on a tick.
func (s *Sequencer) Step() {
	st := s.State()
	if st != s.seen {
		core.DebugPrintln("[SEQ] " + st.String())
		s.seen = st
	}
	switch st {
	case Stopped:
		s.stepStopped()
	case Running:
		s.stepRunning()
	}
}

func (s *Sequencer) stepStopped() {
	s.check(srcAbort, s.deps.Abort.Disable())
	s.check(srcDelayTimer, s.deps.Delay.Stop())
	s.armed = false
	if s.pulsing != NoManeuver {
		s.endPulse()
	}
	s.closeManeuver(s.delay.Sample())
	s.current = NoManeuver
	s.indicate(Stop)
	s.check(srcCar, s.deps.Car.Stop())

	pressed, err := s.deps.StartButton.Pressed()
	s.check(srcButton, err)
	s.delay.Reset()
	if pressed {
		s.transition(Stopped, Running)
	}
}

func (s *Sequencer) stepRunning() {
	if s.deps.StopButton != nil {
		pressed, err := s.deps.StopButton.Pressed()
		s.check(srcButton, err)
		if pressed {
			s.transition(Running, Stopped)
			return
		}
	}
	if !s.armed {
		s.check(srcAbort, s.deps.Abort.Enable())
		s.check(srcDelayTimer, s.deps.Delay.Start())
		s.armed = true
	}

	if s.pulsing != NoManeuver {
		s.pulse()
		return
	}

	d := s.delay.Sample()
	if d <= s.cfg.GraceTicks {
		return
	}
	m, ok := s.cfg.Schedule.Lookup(d)
	if !ok {
		s.delay.Store(s.cfg.WrapTo)
		core.RecordEvent(core.EvtScheduleWrap, d, s.cfg.WrapTo, 0)
		return
	}
	s.dispatch(m, d)
}

// dispatch lights the maneuver's indicator and either stops the car or opens
// a duty-cycle window on the PWM timer.
func (s *Sequencer) dispatch(m Maneuver, tick uint8) {
	if m != s.current {
		s.closeManeuver(tick)
		core.RecordEvent(core.EvtManeuver, tick, uint8(m), 0)
		core.DebugPrintln("[SEQ] maneuver " + m.String() + " at tick " + strconv.Itoa(int(tick)))
		s.current = m
	}
	s.indicate(m)
	if !m.pulsed() {
		s.check(srcCar, s.deps.Car.Stop())
		return
	}

	s.soft.Begin(s.cfg.Duties.For(m))
	s.check(srcPWMTimer, s.deps.PWM.Rearm())
	s.check(srcPWMTimer, s.deps.PWM.Start())
	s.pulsing = m
	s.pulse()
}

// pulse issues the motor command of the current phase. The active command
// is repeated every iteration while the phase lasts.
func (s *Sequencer) pulse() {
	switch s.soft.Phase() {
	case core.PhaseOn:
		s.check(srcCar, s.command(s.pulsing))
	case core.PhaseOff:
		s.check(srcCar, s.deps.Car.Stop())
	case core.PhaseDone:
		if s.windows < 0xFF {
			s.windows++
		}
		s.endPulse()
	default:
		// Cancelled by an abort.
		s.endPulse()
	}
}

// closeManeuver records how many duty windows the outgoing maneuver ran.
// One entry per maneuver keeps the event ring readable.
func (s *Sequencer) closeManeuver(tick uint8) {
	if s.windows == 0 {
		return
	}
	core.RecordEvent(core.EvtPWMDone, tick, uint8(s.current), s.windows)
	s.windows = 0
}

func (s *Sequencer) endPulse() {
	s.check(srcPWMTimer, s.deps.PWM.Stop())
	s.soft.Cancel()
	s.pulsing = NoManeuver
}

func (s *Sequencer) command(m Maneuver) error {
	switch m {
	case LongSide, ShortSide:
		return s.deps.Car.Forward()
	case Rotate:
		return s.deps.Car.ReverseRight()
	}
	return s.deps.Car.Stop()
}

func (s *Sequencer) indicate(m Maneuver) {
	l := s.deps.Lights
	s.light(l.ShortSide, m == ShortSide)
	s.light(l.LongSide, m == LongSide)
	s.light(l.Rotate, m == Rotate)
	s.light(l.Stop, m == Stop)
}

func (s *Sequencer) light(l Light, on bool) {
	if on {
		s.check(srcLight, l.On())
	} else {
		s.check(srcLight, l.Off())
	}
}

// transition moves from one run state to another unless an interrupt got
// there first.
func (s *Sequencer) transition(from, to RunState) {
	if !s.state.CompareAndSwap(uint32(from), uint32(to)) {
		return
	}
	if to == Running {
		s.delay.Reset()
	}
	core.RecordEvent(core.EvtStateChange, s.delay.Sample(), uint8(from), uint8(to))
}

// check logs, counts and records a collaborator error. With FailFast the
// car is stopped.
func (s *Sequencer) check(src uint8, err error) {
	if err == nil {
		return
	}
	s.faults.Add(1)
	st := core.StatusOf(err)
	core.RecordEvent(core.EvtFault, s.delay.Sample(), src, uint8(st))
	core.DebugPrintln("[SEQ] " + srcNames[src] + ": " + err.Error())
	if s.cfg.FailFast {
		s.transition(Running, Stopped)
	}
}

// onPWMTick advances the duty-cycle window. Interrupt context.
func (s *Sequencer) onPWMTick() {
	s.soft.Tick()
	s.fault(srcPWMTimer, s.deps.PWM.Rearm())
}

// onDelayTick advances the schedule clock. Interrupt context.
func (s *Sequencer) onDelayTick() {
	s.delay.Increment()
	s.fault(srcDelayTimer, s.deps.Delay.Rearm())
}

// onAbort zeroes both counters and stops the car. Interrupt context.
func (s *Sequencer) onAbort() {
	tick := s.delay.Sample()
	s.soft.Cancel()
	core.ResetAll(&s.pwm, &s.delay)
	s.state.Store(uint32(Stopped))
	core.RecordEvent(core.EvtAbort, tick, 0, 0)
}

// fault is check for interrupt context: no logging.
func (s *Sequencer) fault(src uint8, err error) {
	if err == nil {
		return
	}
	s.faults.Add(1)
	core.RecordEvent(core.EvtFault, s.delay.Sample(), src, uint8(core.StatusOf(err)))
	if s.cfg.FailFast {
		s.state.Store(uint32(Stopped))
	}
}

func (s *Sequencer) shutdown() {
	if s.pulsing != NoManeuver {
		s.endPulse()
	}
	s.check(srcDelayTimer, s.deps.Delay.Stop())
	s.check(srcAbort, s.deps.Abort.Disable())
	s.check(srcCar, s.deps.Car.Stop())
	s.state.Store(uint32(Stopped))
	s.armed = false
	s.current = NoManeuver
}
