package core

// Accessors for hardware models. The host simulator uses them to observe
// what the drivers programmed and to latch the events silicon would.

// InterruptsEnabled reports whether the global interrupt enable bit is set.
func (l *Layout) InterruptsEnabled(bank RegisterBank) bool {
	return readBit(bank, l.Global)
}

// ClockOf decodes the clock currently selected for the timer.
func (t *TimerLayout) ClockOf(bank RegisterBank) Clock {
	return t.ClockFromBits(readField(bank, t.ClockSelect))
}

// ModeOf decodes the waveform generation mode programmed for the timer.
func (t *TimerLayout) ModeOf(bank RegisterBank) (TimerMode, bool) {
	var wgm uint8
	for i, b := range t.WGM {
		if readBit(bank, b) {
			wgm |= 1 << i
		}
	}
	return t.ModeFromBits(wgm)
}

// Count reads the counter.
func (t *TimerLayout) Count(bank RegisterBank) uint16 {
	v := uint16(bank.Reg(t.CountLow).Get())
	if t.CountHigh != 0 {
		v |= uint16(bank.Reg(t.CountHigh).Get()) << 8
	}
	return v
}

// SetCount stores the counter the way the counting logic does.
func (t *TimerLayout) SetCount(bank RegisterBank, v uint16) {
	if t.CountHigh != 0 {
		bank.Reg(t.CountHigh).Set(uint8(v >> 8))
	}
	bank.Reg(t.CountLow).Set(uint8(v))
}

// CompareValue reads the compare register.
func (t *TimerLayout) CompareValue(bank RegisterBank) uint16 {
	v := uint16(bank.Reg(t.CompareLow).Get())
	if t.CompareHigh != 0 {
		v |= uint16(bank.Reg(t.CompareHigh).Get()) << 8
	}
	return v
}

// Max is the largest count the timer holds.
func (t *TimerLayout) Max() uint16 {
	return uint16(1<<t.Width - 1)
}

// LatchOverflow sets the overflow flag.
func (t *TimerLayout) LatchOverflow(b *MemoryBank) {
	b.Raise(t.OverflowFlag.reg, t.OverflowFlag.mask())
}

// LatchCompare sets the compare-match flag.
func (t *TimerLayout) LatchCompare(b *MemoryBank) { b.Raise(t.CompareFlag.reg, t.CompareFlag.mask()) }

// OverflowPending reports a latched and unmasked overflow.
func (t *TimerLayout) OverflowPending(bank RegisterBank) bool {
	return readBit(bank, t.OverflowFlag) && readBit(bank, t.OverflowEnable)
}

// ComparePending reports a latched and unmasked compare match.
func (t *TimerLayout) ComparePending(bank RegisterBank) bool {
	return readBit(bank, t.CompareFlag) && readBit(bank, t.CompareEnable)
}

// Latch sets the line's interrupt flag.
func (e *ExtiLineLayout) Latch(b *MemoryBank) { b.Raise(e.Flag.reg, e.Flag.mask()) }

// Pending reports a latched and unmasked external interrupt.
func (e *ExtiLineLayout) Pending(bank RegisterBank) bool {
	return readBit(bank, e.Flag) && readBit(bank, e.Enable)
}

// SenseOf decodes the sense condition programmed for the line.
func (e *ExtiLineLayout) SenseOf(bank RegisterBank) (Edge, bool) {
	bits := readField(bank, e.Sense)
	for edge := Edge(0); edge < edgeCount; edge++ {
		if e.Edges[edge].ok && e.Edges[edge].bits == bits {
			return edge, true
		}
	}
	return EdgeLowLevel, false
}

// Drive sets the level an external circuit applies to an input pin.
func (p *PortLayout) Drive(b *MemoryBank, pin Pin, level Level) {
	m := uint8(1) << pin
	v := b.Peek(p.In)
	if level == High {
		v |= m
	} else {
		v &^= m
	}
	b.Poke(p.In, v)
}

// Output reads the output latch of a pin.
func (p *PortLayout) Output(bank RegisterBank, pin Pin) Level {
	if readBit(bank, bitRef{p.Out, uint8(pin)}) {
		return High
	}
	return Low
}
