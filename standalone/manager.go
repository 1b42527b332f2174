// Package standalone assembles the car firmware from a configuration: the
// register-level drivers, the HAL devices and the sequencer.
package standalone

import (
	"context"
	"errors"
	"strconv"

	"movingcar/core"
	"movingcar/sequencer"
	"movingcar/standalone/config"
)

// Manager coordinates all firmware components
type Manager struct {
	config *config.Config
	layout *core.Layout

	// Register-level drivers
	dio    *core.DIO
	timers *core.TimerDriver
	exti   *core.ExtiDriver

	// HAL devices
	car   *core.Car
	start *core.Button
	stop  *core.Button
	leds  sequencer.Lights

	seq *sequencer.Sequencer

	// Status
	initialized bool
}

// NewManager creates a manager from a JSON configuration
func NewManager(configData []byte) (*Manager, error) {
	// Load configuration
	cfg, err := config.LoadConfig(configData)
	if err != nil {
		return nil, err
	}

	return NewManagerWithConfig(cfg)
}

// NewManagerWithConfig creates a manager with an existing config
func NewManagerWithConfig(cfg *config.Config) (*Manager, error) {
	if cfg == nil {
		return nil, core.ErrNullPtr
	}
	layout, ok := core.LayoutByName(cfg.Board)
	if !ok {
		return nil, errors.New("unsupported board: " + cfg.Board)
	}

	return &Manager{config: cfg, layout: layout}, nil
}

// Initialize builds the drivers on hw and wires the sequencer
func (m *Manager) Initialize(hw Hardware) error {
	if m.initialized {
		return errors.New("already initialized")
	}
	if hw.Bank == nil {
		return core.ErrNullPtr
	}
	cfg := m.config

	m.dio = core.NewDIO(m.layout, hw.Bank)

	// Indicators
	leds := [4]*core.LED{
		core.NewLED(m.dio, cfg.LEDs.ShortSide),
		core.NewLED(m.dio, cfg.LEDs.LongSide),
		core.NewLED(m.dio, cfg.LEDs.Rotate),
		core.NewLED(m.dio, cfg.LEDs.Stop),
	}
	for _, led := range leds {
		if err := led.Init(); err != nil {
			return stepErr("led "+led.Pin().String(), err)
		}
	}
	m.leds = sequencer.Lights{ShortSide: leds[0], LongSide: leds[1], Rotate: leds[2], Stop: leds[3]}

	// Buttons
	m.start = core.NewButton(m.dio, cfg.Buttons.Start, cfg.Buttons.Debounce)
	m.stop = core.NewButton(m.dio, cfg.Buttons.Stop, cfg.Buttons.Debounce)
	if err := errors.Join(m.start.Init(), m.stop.Init()); err != nil {
		return stepErr("buttons", err)
	}

	// Motors
	left, right := hw.Motors[0], hw.Motors[1]
	if left == nil {
		left = core.NewMotor(m.dio, cfg.Motors.Left)
	}
	if right == nil {
		right = core.NewMotor(m.dio, cfg.Motors.Right)
	}
	m.car = core.NewCar(left, right)
	if err := m.car.Init(); err != nil {
		return stepErr("car", err)
	}

	// Timers
	m.timers = core.NewTimerDriver(m.layout, hw.Bank)
	tm := core.NewTimerManager(m.timers)
	pwm, err := m.timer(tm, cfg.PWMTimer)
	if err != nil {
		return stepErr("pwm timer", err)
	}
	delay, err := m.timer(tm, cfg.DelayTimer)
	if err != nil {
		return stepErr("delay timer", err)
	}

	// Abort line
	m.exti = core.NewExtiDriver(m.layout, hw.Bank)
	abort := core.NewExtiManager(m.exti).Line(core.ExtiConfig{
		Line: cfg.Abort.Line,
		Edge: cfg.Abort.Edge,
	})

	m.seq, err = sequencer.New(sequencer.Deps{
		Car:         m.car,
		Lights:      m.leds,
		StartButton: m.start,
		StopButton:  m.stop,
		PWM:         pwm,
		Delay:       delay,
		Abort:       abort,
	}, cfg.Sequencer)
	if err != nil {
		return stepErr("sequencer", err)
	}

	if core.IsDebugEnabled() {
		pwmPeriod, delayPeriod := cfg.TickPeriods()
		core.DebugPrintln("[CAR] " + m.layout.Name +
			" pwm tick=" + strconv.FormatInt(pwmPeriod.Microseconds(), 10) + "us" +
			" delay tick=" + strconv.FormatInt(delayPeriod.Milliseconds(), 10) + "ms")
	}

	m.initialized = true
	return nil
}

func (m *Manager) timer(tm *core.TimerManager, tc config.TimerConfig) (*core.ManagedTimer, error) {
	err := tm.Init(&core.TimerConfig{
		ID:      tc.ID,
		Mode:    core.ModeNormal,
		Initial: tc.Initial,
	})
	if err != nil {
		return nil, err
	}
	return tm.Timer(tc.ID, tc.Clock)
}

// Step runs one main-loop iteration
func (m *Manager) Step() {
	if m.initialized {
		m.seq.Step()
	}
}

// Run drives the car until ctx ends
func (m *Manager) Run(ctx context.Context) error {
	if !m.initialized {
		return errors.New("manager not initialized")
	}
	return m.seq.Run(ctx)
}

// Timers returns the timer driver, whose Handle methods are the timer
// interrupt entry points
func (m *Manager) Timers() *core.TimerDriver { return m.timers }

// Exti returns the external interrupt driver
func (m *Manager) Exti() *core.ExtiDriver { return m.exti }

// Config returns the active configuration
func (m *Manager) Config() *config.Config { return m.config }

// Layout returns the register map of the board
func (m *Manager) Layout() *core.Layout { return m.layout }

// IsRunning returns whether the car is executing its itinerary
func (m *Manager) IsRunning() bool {
	return m.initialized && m.seq.State() == sequencer.Running
}

// GetState returns the current car state
func (m *Manager) GetState() *CarState {
	if !m.initialized {
		return nil
	}
	return &CarState{
		State:      m.seq.State(),
		Maneuver:   m.seq.Current(),
		Phase:      m.seq.Phase(),
		Delay:      m.seq.Delay(),
		PWMTicks:   m.seq.PWMTicks(),
		Faults:     m.seq.Faults(),
		PWMTimer:   m.timers.State(m.config.PWMTimer.ID),
		DelayTimer: m.timers.State(m.config.DelayTimer.ID),
		AbortArmed: m.exti.Enabled(m.config.Abort.Line),
	}
}

// EmergencyStop runs the abort handler as if the line had fired
func (m *Manager) EmergencyStop() {
	if !m.initialized {
		return
	}
	m.exti.Handle(m.config.Abort.Line)
	core.DumpEvents()
}

// initError names the initialization step that failed
type initError struct {
	step string
	err  error
}

func stepErr(step string, err error) error {
	return &initError{step: step, err: err}
}

func (e *initError) Error() string { return "init " + e.step + ": " + e.err.Error() }

func (e *initError) Unwrap() error { return e.err }
