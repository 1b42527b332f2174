package core

import (
	"strconv"
	"strings"
)

// TimerID identifies one of the three hardware timers
type TimerID uint8

const (
	Timer0 TimerID = iota
	Timer1
	Timer2
	TimerCount
)

// TimerMode is the waveform generation mode
type TimerMode uint8

const (
	ModeNormal TimerMode = iota
	ModePhaseCorrectPWM
	ModeCTC
	ModeFastPWM
	modeCount
)

// Clock is the clock-select (prescaler) setting used by Start
type Clock uint8

const (
	ClockNone Clock = iota
	ClockDiv1
	ClockDiv8
	ClockDiv32 // Timer2 only
	ClockDiv64
	ClockDiv128 // Timer2 only
	ClockDiv256
	ClockDiv1024
	ClockExternalFalling
	ClockExternalRising
	clockCount
)

// CompareOutputMode is the OCx pin behaviour in non-PWM (CTC) mode
type CompareOutputMode uint8

const (
	CompareDisconnected CompareOutputMode = iota
	CompareToggle
	CompareClear
	CompareSet
	compareOutputCount
)

// PWMOutputMode is the OCx pin behaviour in fast and phase-correct PWM modes
type PWMOutputMode uint8

const (
	PWMDisconnected PWMOutputMode = iota
	PWMToggle                     // 16-bit timer only
	PWMNonInverted
	PWMInverted
	pwmOutputCount
)

// TimerConfig describes how Init programs a timer
type TimerConfig struct {
	ID            TimerID
	Mode          TimerMode
	Initial       uint16 // only the low byte is used on 8-bit timers
	Compare       uint16
	CompareOutput CompareOutputMode
	FastPWM       PWMOutputMode
	PhaseCorrect  PWMOutputMode
	Callback      func()
}

// TimerState is the observable lifecycle state of a timer
type TimerState uint8

const (
	TimerUnconfigured TimerState = iota
	TimerStopped
	TimerRunning
)

// Timer is a single hardware timer bound to a clock selection. Instances come
// from TimerManager.Timer; consumers never see timer identifiers.
type Timer interface {
	// OnFire registers the handler run from the timer's interrupt.
	OnFire(handler func()) error
	Start() error
	Stop() error
	SetValue(value uint16) error
	// Rearm reloads the initial count given at Init.
	Rearm() error
}

var (
	timerNames  = []string{"timer0", "timer1", "timer2"}
	modeNames   = []string{"normal", "phase_correct_pwm", "ctc", "fast_pwm"}
	clockNames  = []string{"none", "div1", "div8", "div32", "div64", "div128", "div256", "div1024", "external_falling", "external_rising"}
	clockDivs   = []uint32{0, 1, 8, 32, 64, 128, 256, 1024, 0, 0}
	stateNames  = []string{"unconfigured", "stopped", "running"}
	cmpOutNames = []string{"disconnected", "toggle", "clear", "set"}
	pwmOutNames = []string{"disconnected", "toggle", "non_inverted", "inverted"}
)

func (id TimerID) valid() bool { return id < TimerCount }

func (id TimerID) String() string { return enumName(timerNames, int(id)) }

// UnmarshalText accepts "timer0".."timer2" and the short forms "t0".."t2"
func (id *TimerID) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	if len(s) == 2 && s[0] == 't' {
		s = "timer" + s[1:]
	}
	v, err := parseEnum(s, timerNames)
	*id = TimerID(v)
	return err
}

func (m TimerMode) String() string { return enumName(modeNames, int(m)) }

func (m *TimerMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), modeNames)
	*m = TimerMode(v)
	return err
}

func (c Clock) String() string { return enumName(clockNames, int(c)) }

func (c *Clock) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), clockNames)
	*c = Clock(v)
	return err
}

// Divider returns the prescaler ratio, or 0 for stopped and external clocks
func (c Clock) Divider() uint32 {
	if c >= clockCount {
		return 0
	}
	return clockDivs[c]
}

func (m CompareOutputMode) String() string { return enumName(cmpOutNames, int(m)) }

func (m *CompareOutputMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), cmpOutNames)
	*m = CompareOutputMode(v)
	return err
}

func (m PWMOutputMode) String() string { return enumName(pwmOutNames, int(m)) }

func (m *PWMOutputMode) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), pwmOutNames)
	*m = PWMOutputMode(v)
	return err
}

func (s TimerState) String() string { return enumName(stateNames, int(s)) }

// OverflowPeriodNanos returns the interval between overflow interrupts of a
// timer of the given width, counting up from initial at cpuHz/divider.
func OverflowPeriodNanos(cpuHz uint32, clock Clock, width uint8, initial uint16) uint64 {
	div := clock.Divider()
	if cpuHz == 0 || div == 0 {
		return 0
	}
	top := uint64(1) << width
	start := uint64(initial) & (top - 1)
	counts := top - start
	return counts * uint64(div) * 1000000000 / uint64(cpuHz)
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "invalid(" + strconv.Itoa(i) + ")"
	}
	return names[i]
}

func parseEnum(s string, names []string) (int, error) {
	for i, n := range names {
		if strings.EqualFold(s, n) {
			return i, nil
		}
	}
	return len(names), wrapErr("unknown value "+strings.TrimSpace(s), ErrNOK)
}
