package core

import "errors"

// ExtiManager mirrors TimerManager for the external interrupt lines
type ExtiManager struct {
	driver *ExtiDriver
}

// NewExtiManager wraps driver
func NewExtiManager(driver *ExtiDriver) *ExtiManager {
	return &ExtiManager{driver: driver}
}

// Init programs the sense condition of cfg.Line and registers cb
func (m *ExtiManager) Init(cfg *ExtiConfig, cb func()) error {
	if cfg == nil || cb == nil {
		return ErrNullPtr
	}
	return errors.Join(
		m.driver.Init(cfg.Line, cfg.Edge),
		m.driver.SetCallback(cfg.Line, cb),
	)
}

// Enable unmasks cfg.Line
func (m *ExtiManager) Enable(cfg *ExtiConfig) error {
	if cfg == nil {
		return ErrNullPtr
	}
	return m.driver.Enable(cfg.Line)
}

// Disable masks cfg.Line
func (m *ExtiManager) Disable(cfg *ExtiConfig) error {
	if cfg == nil {
		return ErrNullPtr
	}
	return m.driver.Disable(cfg.Line)
}

// Line returns an ExternalInterrupt handle for cfg. The sense condition is
// programmed on the first OnFire.
func (m *ExtiManager) Line(cfg ExtiConfig) *ManagedLine {
	return &ManagedLine{m: m, cfg: cfg}
}

// ManagedLine implements ExternalInterrupt for one line
type ManagedLine struct {
	m   *ExtiManager
	cfg ExtiConfig
}

func (l *ManagedLine) OnFire(handler func()) error { return l.m.Init(&l.cfg, handler) }

func (l *ManagedLine) Enable() error { return l.m.Enable(&l.cfg) }

func (l *ManagedLine) Disable() error { return l.m.Disable(&l.cfg) }
