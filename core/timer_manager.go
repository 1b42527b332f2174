package core

import "errors"

// TimerManager is the validating facade the application talks to. It keeps
// the sequencer away from register semantics and is the seam where tests
// substitute timers.
type TimerManager struct {
	driver   *TimerDriver
	initials [TimerCount]uint16
}

// NewTimerManager wraps driver
func NewTimerManager(driver *TimerDriver) *TimerManager {
	return &TimerManager{driver: driver}
}

// Init programs the timer and, when cfg carries one, registers its callback.
// Both results are reported together.
func (m *TimerManager) Init(cfg *TimerConfig) error {
	if cfg == nil {
		return ErrNullPtr
	}
	if !cfg.ID.valid() {
		return ErrNOK
	}
	err := m.driver.Init(cfg)
	if err == nil {
		m.initials[cfg.ID] = cfg.Initial
	}
	if cfg.Callback != nil {
		err = errors.Join(err, m.driver.SetCallback(cfg.Callback, cfg.ID))
	}
	return err
}

// Start starts timer id with the given clock
func (m *TimerManager) Start(clock Clock, id TimerID) error {
	if clock >= clockCount || !id.valid() {
		return ErrNOK
	}
	return m.driver.Start(clock, id)
}

// Stop halts timer id
func (m *TimerManager) Stop(id TimerID) error {
	if !id.valid() {
		return ErrNOK
	}
	return m.driver.Stop(id)
}

// SetValue writes the counter of timer id
func (m *TimerManager) SetValue(id TimerID, value uint16) error {
	if !id.valid() {
		return ErrNOK
	}
	return m.driver.SetValue(id, value)
}

// Timer returns a capability handle for timer id running from clock.
// The timer should already be initialised; Rearm reloads the initial count
// given to Init.
func (m *TimerManager) Timer(id TimerID, clock Clock) (*ManagedTimer, error) {
	if !m.driver.layout.SupportsClock(id, clock) {
		return nil, ErrNOK
	}
	return &ManagedTimer{m: m, id: id, clock: clock}, nil
}

// ManagedTimer implements Timer for one hardware timer
type ManagedTimer struct {
	m     *TimerManager
	id    TimerID
	clock Clock
}

// ID returns the hardware timer behind the handle
func (t *ManagedTimer) ID() TimerID { return t.id }

func (t *ManagedTimer) OnFire(handler func()) error {
	return t.m.driver.SetCallback(handler, t.id)
}

func (t *ManagedTimer) Start() error { return t.m.Start(t.clock, t.id) }

func (t *ManagedTimer) Stop() error { return t.m.Stop(t.id) }

func (t *ManagedTimer) SetValue(value uint16) error { return t.m.SetValue(t.id, value) }

func (t *ManagedTimer) Rearm() error { return t.m.SetValue(t.id, t.m.initials[t.id]) }
