package core

// Layout is the register map of one microcontroller part. All drivers in this
// package are table-driven from a Layout; no driver code branches on the part
// or on the timer number.
type Layout struct {
	Name string

	// Global interrupt enable (SREG I bit).
	Global bitRef

	Timers [TimerCount]TimerLayout
	Exti   [ExtiLineCount]ExtiLineLayout
	Ports  [PortCount]PortLayout
}

// TimerLayout describes one timer's registers and its mode encodings.
type TimerLayout struct {
	Width uint8 // 8 or 16

	CountLow, CountHigh     uint16 // CountHigh is zero on 8-bit timers
	CompareLow, CompareHigh uint16

	// Control registers cleared by Init and Reset.
	Control []uint16

	ClockSelect field
	Clocks      [clockCount]clockBits

	// WGM bits in ascending significance (WGMx0, WGMx1, ...).
	WGM   []bitRef
	Modes [modeCount]uint8

	// Compare-output bit pairs, one per output channel: {COMxn0, COMxn1}.
	COM [][2]bitRef

	// Force-output-compare strobes, set in the non-PWM modes.
	FOC []bitRef

	// PWMToggle reports whether toggle is a legal PWM output mode.
	PWMToggle bool

	OverflowEnable, CompareEnable bitRef
	OverflowFlag, CompareFlag     bitRef
}

type clockBits struct {
	ok   bool
	bits uint8
}

// ExtiLineLayout describes one external interrupt line.
type ExtiLineLayout struct {
	Present bool
	Sense   field
	Edges   [edgeCount]clockBits
	Enable  bitRef
	Flag    bitRef
}

// PortLayout holds the three registers of a digital I/O port.
type PortLayout struct {
	Present bool
	In      uint16 // PINx
	Dir     uint16 // DDRx
	Out     uint16 // PORTx
}

// Layouts lists the supported parts.
var Layouts = []*Layout{ATmega32, ATmega328P}

// LayoutByName returns the layout called name.
func LayoutByName(name string) (*Layout, bool) {
	for _, l := range Layouts {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// HasPin reports whether p names a pin of a port this part has.
func (l *Layout) HasPin(p PinRef) bool {
	return p.Port < PortCount && l.Ports[p.Port].Present && p.Pin < PinCount
}

// SupportsEdge reports whether line exists and can sense edge.
func (l *Layout) SupportsEdge(line ExtiLine, edge Edge) bool {
	if line >= ExtiLineCount || edge >= edgeCount {
		return false
	}
	ll := &l.Exti[line]
	return ll.Present && ll.Edges[edge].ok
}

// Timer returns the layout of timer id.
func (l *Layout) Timer(id TimerID) *TimerLayout {
	if !id.valid() {
		return nil
	}
	return &l.Timers[id]
}

// SupportsClock reports whether clock can drive timer id on this part.
func (l *Layout) SupportsClock(id TimerID, clock Clock) bool {
	if !id.valid() || clock >= clockCount {
		return false
	}
	return l.Timers[id].Clocks[clock].ok
}

// ClockFromBits decodes the clock-select value read back from hardware.
func (t *TimerLayout) ClockFromBits(bits uint8) Clock {
	for c := Clock(0); c < clockCount; c++ {
		if t.Clocks[c].ok && t.Clocks[c].bits == bits {
			return c
		}
	}
	return ClockNone
}

// ModeFromBits decodes the WGM value read back from hardware.
func (t *TimerLayout) ModeFromBits(wgm uint8) (TimerMode, bool) {
	for m := TimerMode(0); m < modeCount; m++ {
		if t.Modes[m] == wgm {
			return m, true
		}
	}
	return ModeNormal, false
}

func (l *Layout) flagRegisters() []uint16 {
	var regs []uint16
	add := func(b bitRef) {
		if !b.valid() {
			return
		}
		for _, r := range regs {
			if r == b.reg {
				return
			}
		}
		regs = append(regs, b.reg)
	}
	for i := range l.Timers {
		add(l.Timers[i].OverflowFlag)
		add(l.Timers[i].CompareFlag)
	}
	for i := range l.Exti {
		add(l.Exti[i].Flag)
	}
	return regs
}

// standard clock-select table for timers with an external clock input.
func extClockTable() [clockCount]clockBits {
	var t [clockCount]clockBits
	t[ClockNone] = clockBits{true, 0}
	t[ClockDiv1] = clockBits{true, 1}
	t[ClockDiv8] = clockBits{true, 2}
	t[ClockDiv64] = clockBits{true, 3}
	t[ClockDiv256] = clockBits{true, 4}
	t[ClockDiv1024] = clockBits{true, 5}
	t[ClockExternalFalling] = clockBits{true, 6}
	t[ClockExternalRising] = clockBits{true, 7}
	return t
}

// clock-select table of the asynchronous timer (Timer2).
func asyncClockTable() [clockCount]clockBits {
	var t [clockCount]clockBits
	t[ClockNone] = clockBits{true, 0}
	t[ClockDiv1] = clockBits{true, 1}
	t[ClockDiv8] = clockBits{true, 2}
	t[ClockDiv32] = clockBits{true, 3}
	t[ClockDiv64] = clockBits{true, 4}
	t[ClockDiv128] = clockBits{true, 5}
	t[ClockDiv256] = clockBits{true, 6}
	t[ClockDiv1024] = clockBits{true, 7}
	return t
}

// WGM values shared by both parts: the 8-bit modes of the 16-bit timer use the
// same encodings with WGMx2 standing in for WGMx1 in CTC and fast PWM.
var (
	modes8  = [modeCount]uint8{ModeNormal: 0, ModePhaseCorrectPWM: 1, ModeCTC: 2, ModeFastPWM: 3}
	modes16 = [modeCount]uint8{ModeNormal: 0, ModePhaseCorrectPWM: 1, ModeCTC: 4, ModeFastPWM: 5}
)

// sense encodings of INT0/INT1.
func senseTable() [edgeCount]clockBits {
	var t [edgeCount]clockBits
	t[EdgeLowLevel] = clockBits{true, 0}
	t[EdgeAny] = clockBits{true, 1}
	t[EdgeFalling] = clockBits{true, 2}
	t[EdgeRising] = clockBits{true, 3}
	return t
}
