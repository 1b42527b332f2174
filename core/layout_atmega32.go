package core

// ATmega32 data-space addresses.
const (
	m32OCR0   = 0x5C
	m32GICR   = 0x5B
	m32GIFR   = 0x5A
	m32TIMSK  = 0x59
	m32TIFR   = 0x58
	m32MCUCR  = 0x55
	m32MCUCSR = 0x54
	m32TCCR0  = 0x53
	m32TCNT0  = 0x52
	m32TCCR1A = 0x4F
	m32TCCR1B = 0x4E
	m32TCNT1H = 0x4D
	m32TCNT1L = 0x4C
	m32OCR1AH = 0x4B
	m32OCR1AL = 0x4A
	m32TCCR2  = 0x45
	m32TCNT2  = 0x44
	m32OCR2   = 0x43
	sregAddr  = 0x5F
)

// ATmega32 is the register map of the ATmega32/ATmega32A.
var ATmega32 = &Layout{
	Name:   "atmega32",
	Global: bitRef{sregAddr, 7},
	Timers: [TimerCount]TimerLayout{
		Timer0: {
			Width:       8,
			CountLow:    m32TCNT0,
			CompareLow:  m32OCR0,
			Control:     []uint16{m32TCCR0},
			ClockSelect: field{m32TCCR0, 0, 0x07},
			Clocks:      extClockTable(),
			WGM:         []bitRef{{m32TCCR0, 6}, {m32TCCR0, 3}},
			Modes:       modes8,
			COM:         [][2]bitRef{{{m32TCCR0, 4}, {m32TCCR0, 5}}},
			FOC:         []bitRef{{m32TCCR0, 7}},

			OverflowEnable: bitRef{m32TIMSK, 0},
			CompareEnable:  bitRef{m32TIMSK, 1},
			OverflowFlag:   bitRef{m32TIFR, 0},
			CompareFlag:    bitRef{m32TIFR, 1},
		},
		Timer1: {
			Width:       16,
			CountLow:    m32TCNT1L,
			CountHigh:   m32TCNT1H,
			CompareLow:  m32OCR1AL,
			CompareHigh: m32OCR1AH,
			Control:     []uint16{m32TCCR1A, m32TCCR1B},
			ClockSelect: field{m32TCCR1B, 0, 0x07},
			Clocks:      extClockTable(),
			WGM:         []bitRef{{m32TCCR1A, 0}, {m32TCCR1A, 1}, {m32TCCR1B, 3}, {m32TCCR1B, 4}},
			Modes:       modes16,
			COM: [][2]bitRef{
				{{m32TCCR1A, 6}, {m32TCCR1A, 7}},
				{{m32TCCR1A, 4}, {m32TCCR1A, 5}},
			},
			FOC:       []bitRef{{m32TCCR1A, 3}, {m32TCCR1A, 2}},
			PWMToggle: true,

			OverflowEnable: bitRef{m32TIMSK, 2},
			CompareEnable:  bitRef{m32TIMSK, 4},
			OverflowFlag:   bitRef{m32TIFR, 2},
			CompareFlag:    bitRef{m32TIFR, 4},
		},
		Timer2: {
			Width:       8,
			CountLow:    m32TCNT2,
			CompareLow:  m32OCR2,
			Control:     []uint16{m32TCCR2},
			ClockSelect: field{m32TCCR2, 0, 0x07},
			Clocks:      asyncClockTable(),
			WGM:         []bitRef{{m32TCCR2, 6}, {m32TCCR2, 3}},
			Modes:       modes8,
			COM:         [][2]bitRef{{{m32TCCR2, 4}, {m32TCCR2, 5}}},
			FOC:         []bitRef{{m32TCCR2, 7}},

			OverflowEnable: bitRef{m32TIMSK, 6},
			CompareEnable:  bitRef{m32TIMSK, 7},
			OverflowFlag:   bitRef{m32TIFR, 6},
			CompareFlag:    bitRef{m32TIFR, 7},
		},
	},
	Exti: [ExtiLineCount]ExtiLineLayout{
		Int0: {
			Present: true,
			Sense:   field{m32MCUCR, 0, 0x03},
			Edges:   senseTable(),
			Enable:  bitRef{m32GICR, 6},
			Flag:    bitRef{m32GIFR, 6},
		},
		Int1: {
			Present: true,
			Sense:   field{m32MCUCR, 2, 0x03},
			Edges:   senseTable(),
			Enable:  bitRef{m32GICR, 7},
			Flag:    bitRef{m32GIFR, 7},
		},
		Int2: {
			Present: true,
			Sense:   field{m32MCUCSR, 6, 0x01},
			Edges: [edgeCount]clockBits{
				EdgeFalling: {true, 0},
				EdgeRising:  {true, 1},
			},
			Enable: bitRef{m32GICR, 5},
			Flag:   bitRef{m32GIFR, 5},
		},
	},
	Ports: [PortCount]PortLayout{
		PortA: {true, 0x39, 0x3A, 0x3B},
		PortB: {true, 0x36, 0x37, 0x38},
		PortC: {true, 0x33, 0x34, 0x35},
		PortD: {true, 0x30, 0x31, 0x32},
	},
}
