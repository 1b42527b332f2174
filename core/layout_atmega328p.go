package core

// ATmega328P data-space addresses.
const (
	p328TIFR0  = 0x35
	p328TIFR1  = 0x36
	p328TIFR2  = 0x37
	p328EIFR   = 0x3C
	p328EIMSK  = 0x3D
	p328TCCR0A = 0x44
	p328TCCR0B = 0x45
	p328TCNT0  = 0x46
	p328OCR0A  = 0x47
	p328EICRA  = 0x69
	p328TIMSK0 = 0x6E
	p328TIMSK1 = 0x6F
	p328TIMSK2 = 0x70
	p328TCCR1A = 0x80
	p328TCCR1B = 0x81
	p328TCCR1C = 0x82
	p328TCNT1L = 0x84
	p328TCNT1H = 0x85
	p328OCR1AL = 0x88
	p328OCR1AH = 0x89
	p328TCCR2A = 0xB0
	p328TCCR2B = 0xB1
	p328TCNT2  = 0xB2
	p328OCR2A  = 0xB3
)

// ATmega328P is the register map of the ATmega328P (Arduino Uno/Nano).
// It has no port A and no INT2; both report as absent.
var ATmega328P = &Layout{
	Name:   "atmega328p",
	Global: bitRef{sregAddr, 7},
	Timers: [TimerCount]TimerLayout{
		Timer0: {
			Width:       8,
			CountLow:    p328TCNT0,
			CompareLow:  p328OCR0A,
			Control:     []uint16{p328TCCR0A, p328TCCR0B},
			ClockSelect: field{p328TCCR0B, 0, 0x07},
			Clocks:      extClockTable(),
			WGM:         []bitRef{{p328TCCR0A, 0}, {p328TCCR0A, 1}},
			Modes:       modes8,
			COM:         [][2]bitRef{{{p328TCCR0A, 6}, {p328TCCR0A, 7}}},
			FOC:         []bitRef{{p328TCCR0B, 7}},

			OverflowEnable: bitRef{p328TIMSK0, 0},
			CompareEnable:  bitRef{p328TIMSK0, 1},
			OverflowFlag:   bitRef{p328TIFR0, 0},
			CompareFlag:    bitRef{p328TIFR0, 1},
		},
		Timer1: {
			Width:       16,
			CountLow:    p328TCNT1L,
			CountHigh:   p328TCNT1H,
			CompareLow:  p328OCR1AL,
			CompareHigh: p328OCR1AH,
			Control:     []uint16{p328TCCR1A, p328TCCR1B, p328TCCR1C},
			ClockSelect: field{p328TCCR1B, 0, 0x07},
			Clocks:      extClockTable(),
			WGM:         []bitRef{{p328TCCR1A, 0}, {p328TCCR1A, 1}, {p328TCCR1B, 3}, {p328TCCR1B, 4}},
			Modes:       modes16,
			COM: [][2]bitRef{
				{{p328TCCR1A, 6}, {p328TCCR1A, 7}},
				{{p328TCCR1A, 4}, {p328TCCR1A, 5}},
			},
			FOC:       []bitRef{{p328TCCR1C, 7}, {p328TCCR1C, 6}},
			PWMToggle: true,

			OverflowEnable: bitRef{p328TIMSK1, 0},
			CompareEnable:  bitRef{p328TIMSK1, 1},
			OverflowFlag:   bitRef{p328TIFR1, 0},
			CompareFlag:    bitRef{p328TIFR1, 1},
		},
		Timer2: {
			Width:       8,
			CountLow:    p328TCNT2,
			CompareLow:  p328OCR2A,
			Control:     []uint16{p328TCCR2A, p328TCCR2B},
			ClockSelect: field{p328TCCR2B, 0, 0x07},
			Clocks:      asyncClockTable(),
			WGM:         []bitRef{{p328TCCR2A, 0}, {p328TCCR2A, 1}},
			Modes:       modes8,
			COM:         [][2]bitRef{{{p328TCCR2A, 6}, {p328TCCR2A, 7}}},
			FOC:         []bitRef{{p328TCCR2B, 7}},

			OverflowEnable: bitRef{p328TIMSK2, 0},
			CompareEnable:  bitRef{p328TIMSK2, 1},
			OverflowFlag:   bitRef{p328TIFR2, 0},
			CompareFlag:    bitRef{p328TIFR2, 1},
		},
	},
	Exti: [ExtiLineCount]ExtiLineLayout{
		Int0: {
			Present: true,
			Sense:   field{p328EICRA, 0, 0x03},
			Edges:   senseTable(),
			Enable:  bitRef{p328EIMSK, 0},
			Flag:    bitRef{p328EIFR, 0},
		},
		Int1: {
			Present: true,
			Sense:   field{p328EICRA, 2, 0x03},
			Edges:   senseTable(),
			Enable:  bitRef{p328EIMSK, 1},
			Flag:    bitRef{p328EIFR, 1},
		},
	},
	Ports: [PortCount]PortLayout{
		PortB: {true, 0x23, 0x24, 0x25},
		PortC: {true, 0x26, 0x27, 0x28},
		PortD: {true, 0x29, 0x2A, 0x2B},
	},
}
