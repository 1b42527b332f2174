// Package sim models the timers, external interrupt lines and ports of an
// AVR part on top of a core.MemoryBank, so the firmware stack runs unchanged
// on a host. Time only moves when Advance is called.
package sim

import (
	"sync"

	"movingcar/core"
)

// Machine is a simulated microcontroller.
type Machine struct {
	layout *core.Layout
	bank   *core.MemoryBank

	timers *core.TimerDriver
	exti   *core.ExtiDriver

	mu       sync.Mutex
	residual [core.TimerCount]uint64 // CPU cycles not yet worth a count
	down     [core.TimerCount]bool   // phase-correct counting direction
	cycles   uint64
	serviced uint64
}

// New creates a machine with a zeroed register file.
func New(l *core.Layout) *Machine {
	return &Machine{layout: l, bank: core.NewMemoryBank(l)}
}

// Layout returns the part being simulated.
func (m *Machine) Layout() *core.Layout { return m.layout }

// Bank returns the register file drivers should be built on.
func (m *Machine) Bank() *core.MemoryBank { return m.bank }

// Attach connects the interrupt vectors to the drivers' entry points.
func (m *Machine) Attach(timers *core.TimerDriver, exti *core.ExtiDriver) {
	m.mu.Lock()
	m.timers = timers
	m.exti = exti
	m.mu.Unlock()
}

// Cycles returns the CPU cycles simulated so far.
func (m *Machine) Cycles() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycles
}

// Interrupts returns how many interrupt handlers have run.
func (m *Machine) Interrupts() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serviced
}

// Advance runs the timers for the given number of CPU cycles, dispatching
// every interrupt that becomes pending on the way. Handlers run on the
// caller's goroutine, one count at a time, so a handler that reloads its
// counter affects the counts that follow.
func (m *Machine) Advance(cycles uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.service()
	for id := core.Timer0; id < core.TimerCount; id++ {
		m.run(id, cycles)
	}
	m.cycles += cycles
}

func (m *Machine) run(id core.TimerID, cycles uint64) {
	t := m.layout.Timer(id)
	div := uint64(t.ClockOf(m.bank).Divider())
	if div == 0 {
		// Stopped, or clocked from a pin we do not model.
		m.residual[id] = 0
		return
	}
	m.residual[id] += cycles
	n := m.residual[id] / div
	m.residual[id] %= div

	for ; n > 0; n-- {
		m.count(id, t)
		m.service()
		if t.ClockOf(m.bank) == core.ClockNone {
			// A handler stopped the timer.
			m.residual[id] = 0
			return
		}
	}
}

// count advances one timer by a single count.
func (m *Machine) count(id core.TimerID, t *core.TimerLayout) {
	mode, _ := t.ModeOf(m.bank)
	cur := t.Count(m.bank)
	cmp := t.CompareValue(m.bank)
	top := t.Max()
	if mode == core.ModeFastPWM || mode == core.ModePhaseCorrectPWM {
		top = 0xFF
	}

	var next uint16
	overflow := false
	switch mode {
	case core.ModeCTC:
		if cur == cmp {
			next = 0
		} else {
			next = cur + 1
		}
		overflow = cur == t.Max()
	case core.ModePhaseCorrectPWM:
		if m.down[id] {
			if cur == 0 {
				m.down[id] = false
				next = 1
			} else {
				next = cur - 1
				overflow = next == 0
			}
		} else {
			if cur >= top {
				m.down[id] = true
				next = cur - 1
			} else {
				next = cur + 1
			}
		}
	default:
		if cur >= top {
			next = 0
			overflow = true
		} else {
			next = cur + 1
		}
	}

	t.SetCount(m.bank, next)
	if overflow {
		t.LatchOverflow(m.bank)
	}
	if next == cmp {
		t.LatchCompare(m.bank)
	}
}

// service runs the handlers of pending interrupts in vector order.
func (m *Machine) service() {
	if !m.layout.InterruptsEnabled(m.bank) {
		return
	}
	if m.exti != nil {
		for l := core.Int0; l < core.ExtiLineCount; l++ {
			if m.layout.Exti[l].Present && m.layout.Exti[l].Pending(m.bank) {
				m.exti.Handle(l)
				m.serviced++
			}
		}
	}
	if m.timers != nil {
		for id := core.TimerCount; id > 0; id-- {
			t := m.layout.Timer(id - 1)
			if t.ComparePending(m.bank) {
				m.timers.HandleCompare(id - 1)
				m.serviced++
			}
			if t.OverflowPending(m.bank) {
				m.timers.HandleOverflow(id - 1)
				m.serviced++
			}
		}
	}
}

// Edge applies a signal edge to an external interrupt pin. The flag latches
// when the edge matches the programmed sense, even while the line is masked.
func (m *Machine) Edge(line core.ExtiLine, rising bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if line >= core.ExtiLineCount || !m.layout.Exti[line].Present {
		return
	}
	ll := &m.layout.Exti[line]
	sense, ok := ll.SenseOf(m.bank)
	if !ok {
		return
	}
	switch sense {
	case core.EdgeAny:
	case core.EdgeRising:
		if !rising {
			return
		}
	default:
		// Falling edge, or the low level that follows it.
		if rising {
			return
		}
	}
	ll.Latch(m.bank)
	m.service()
}

// SetInput sets the level an external circuit applies to an input pin.
func (m *Machine) SetInput(pin core.PinRef, level core.Level) error {
	if !m.layout.HasPin(pin) {
		return core.ErrInvalidPort
	}
	m.layout.Ports[pin.Port].Drive(m.bank, pin.Pin, level)
	return nil
}

// Output returns the level the firmware drives on a pin.
func (m *Machine) Output(pin core.PinRef) (core.Level, error) {
	if !m.layout.HasPin(pin) {
		return core.Low, core.ErrInvalidPort
	}
	return m.layout.Ports[pin.Port].Output(m.bank, pin.Pin), nil
}
