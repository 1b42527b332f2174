package core

// TimerDriver programs the three hardware timers of a Layout and dispatches
// their interrupts to registered callbacks.
//
// Lifecycle per timer: unconfigured -> Init -> stopped -> Start -> running ->
// Stop -> stopped -> Reset -> unconfigured. SetValue and SetCallback are
// accepted in every state.
type TimerDriver struct {
	layout *Layout
	bank   RegisterBank

	callbacks  [TimerCount]func()
	configured [TimerCount]bool
}

// NewTimerDriver creates a timer driver over bank.
func NewTimerDriver(l *Layout, bank RegisterBank) *TimerDriver {
	return &TimerDriver{layout: l, bank: bank}
}

// Layout returns the register map the driver was built for.
func (d *TimerDriver) Layout() *Layout { return d.layout }

// Init validates cfg and programs the timer. No register is written unless
// the whole configuration is valid. The callback is not registered here; see
// SetCallback and TimerManager.Init.
func (d *TimerDriver) Init(cfg *TimerConfig) error {
	if cfg == nil {
		return ErrNullPtr
	}
	if !cfg.ID.valid() || cfg.Mode >= modeCount ||
		cfg.CompareOutput >= compareOutputCount ||
		cfg.FastPWM >= pwmOutputCount || cfg.PhaseCorrect >= pwmOutputCount {
		return ErrNOK
	}
	t := &d.layout.Timers[cfg.ID]
	com, err := outputBits(t, cfg)
	if err != nil {
		return err
	}

	state := disableInterrupts()
	defer restoreInterrupts(state)

	d.clearTimer(t)
	d.writeCount(t, cfg.Initial)

	wgm := t.Modes[cfg.Mode]
	for i, b := range t.WGM {
		writeBit(d.bank, b, wgm&(1<<i) != 0)
	}
	for _, ch := range t.COM {
		writeBit(d.bank, ch[0], com&0x1 != 0)
		writeBit(d.bank, ch[1], com&0x2 != 0)
	}

	switch cfg.Mode {
	case ModeNormal:
		d.strobeFOC(t)
		setBit(d.bank, t.OverflowEnable)
	case ModeCTC:
		d.strobeFOC(t)
		d.writeCompare(t, cfg.Compare)
		setBit(d.bank, t.CompareEnable)
	case ModeFastPWM, ModePhaseCorrectPWM:
		d.writeCompare(t, cfg.Compare)
	}

	d.configured[cfg.ID] = true
	return nil
}

// SetCallback registers fn as the handler of timer id's interrupt.
func (d *TimerDriver) SetCallback(fn func(), id TimerID) error {
	if fn == nil {
		return ErrNullPtr
	}
	if !id.valid() {
		return ErrNOK
	}
	state := disableInterrupts()
	d.callbacks[id] = fn
	restoreInterrupts(state)
	return nil
}

// Start selects the clock source, which starts counting, and enables
// interrupts globally.
func (d *TimerDriver) Start(clock Clock, id TimerID) error {
	if !d.layout.SupportsClock(id, clock) {
		return ErrNOK
	}
	t := &d.layout.Timers[id]
	writeField(d.bank, t.ClockSelect, t.Clocks[clock].bits)
	setBit(d.bank, d.layout.Global)
	return nil
}

// Stop clears the clock-select bits. The count is preserved.
func (d *TimerDriver) Stop(id TimerID) error {
	if !id.valid() {
		return ErrNOK
	}
	writeField(d.bank, d.layout.Timers[id].ClockSelect, 0)
	return nil
}

// SetValue loads the counter. 8-bit timers keep the low byte.
func (d *TimerDriver) SetValue(id TimerID, value uint16) error {
	if !id.valid() {
		return ErrNOK
	}
	d.writeCount(&d.layout.Timers[id], value)
	return nil
}

// Value reads the counter.
func (d *TimerDriver) Value(id TimerID) (uint16, error) {
	if !id.valid() {
		return 0, ErrNOK
	}
	t := &d.layout.Timers[id]
	lo := d.bank.Reg(t.CountLow).Get()
	if t.CountHigh == 0 {
		return uint16(lo), nil
	}
	hi := d.bank.Reg(t.CountHigh).Get()
	return uint16(hi)<<8 | uint16(lo), nil
}

// SetCompare loads the output-compare register.
func (d *TimerDriver) SetCompare(id TimerID, value uint16) error {
	if !id.valid() {
		return ErrNOK
	}
	d.writeCompare(&d.layout.Timers[id], value)
	return nil
}

// Reset returns the timer to its power-on state: count, control and compare
// registers cleared, its interrupt sources masked and their flags cleared.
// Mask and flag bits of the other timers sharing those registers are kept.
func (d *TimerDriver) Reset(id TimerID) error {
	if !id.valid() {
		return ErrNOK
	}
	t := &d.layout.Timers[id]

	state := disableInterrupts()
	defer restoreInterrupts(state)

	d.clearTimer(t)
	clearBit(d.bank, t.OverflowEnable)
	clearBit(d.bank, t.CompareEnable)
	ackFlag(d.bank, t.OverflowFlag)
	ackFlag(d.bank, t.CompareFlag)
	d.configured[id] = false
	return nil
}

// State reports the lifecycle state of timer id.
func (d *TimerDriver) State(id TimerID) TimerState {
	if !id.valid() || !d.configured[id] {
		return TimerUnconfigured
	}
	if readField(d.bank, d.layout.Timers[id].ClockSelect) != 0 {
		return TimerRunning
	}
	return TimerStopped
}

// HandleOverflow is the overflow interrupt entry point. The flag is cleared
// before the callback runs; without a callback the interrupt is absorbed.
func (d *TimerDriver) HandleOverflow(id TimerID) {
	if !id.valid() {
		return
	}
	ackFlag(d.bank, d.layout.Timers[id].OverflowFlag)
	if cb := d.callbacks[id]; cb != nil {
		cb()
	}
}

// HandleCompare is the compare-match interrupt entry point.
func (d *TimerDriver) HandleCompare(id TimerID) {
	if !id.valid() {
		return
	}
	ackFlag(d.bank, d.layout.Timers[id].CompareFlag)
	if cb := d.callbacks[id]; cb != nil {
		cb()
	}
}

func (d *TimerDriver) clearTimer(t *TimerLayout) {
	clearReg(d.bank, t.CountHigh)
	clearReg(d.bank, t.CountLow)
	for _, r := range t.Control {
		clearReg(d.bank, r)
	}
	clearReg(d.bank, t.CompareHigh)
	clearReg(d.bank, t.CompareLow)
}

// 16-bit registers go through the shared TEMP latch: high byte first on write.
func (d *TimerDriver) writeCount(t *TimerLayout, v uint16) {
	if t.CountHigh != 0 {
		d.bank.Reg(t.CountHigh).Set(uint8(v >> 8))
	}
	d.bank.Reg(t.CountLow).Set(uint8(v))
}

func (d *TimerDriver) writeCompare(t *TimerLayout, v uint16) {
	if t.CompareHigh != 0 {
		d.bank.Reg(t.CompareHigh).Set(uint8(v >> 8))
	}
	d.bank.Reg(t.CompareLow).Set(uint8(v))
}

func (d *TimerDriver) strobeFOC(t *TimerLayout) {
	for _, b := range t.FOC {
		setBit(d.bank, b)
	}
}

// outputBits returns the 2-bit COM value for the configured mode.
func outputBits(t *TimerLayout, cfg *TimerConfig) (uint8, error) {
	switch cfg.Mode {
	case ModeCTC:
		return uint8(cfg.CompareOutput), nil
	case ModeFastPWM:
		return pwmOutputBits(t, cfg.FastPWM)
	case ModePhaseCorrectPWM:
		return pwmOutputBits(t, cfg.PhaseCorrect)
	default:
		return 0, nil
	}
}

func pwmOutputBits(t *TimerLayout, m PWMOutputMode) (uint8, error) {
	if m == PWMToggle && !t.PWMToggle {
		return 0, ErrNOK
	}
	return uint8(m), nil
}
