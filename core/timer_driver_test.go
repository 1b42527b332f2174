package core

import (
	"errors"
	"testing"
)

func newTimerDriver() (*TimerDriver, *MemoryBank) {
	bank := NewMemoryBank(ATmega32)
	return NewTimerDriver(ATmega32, bank), bank
}

func TestTimerDriver_InitNormal(t *testing.T) {
	d, bank := newTimerDriver()

	if err := d.Init(&TimerConfig{ID: Timer0, Mode: ModeNormal, Initial: 240}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if v := bank.Peek(m32TCNT0); v != 240 {
		t.Errorf("expected TCNT0=240, got %d", v)
	}
	if bank.Peek(m32TIMSK)&0x01 == 0 {
		t.Error("expected TOIE0 set")
	}
	if bank.Peek(m32TCCR0)&0x48 != 0 {
		t.Error("expected WGM00/WGM01 clear in normal mode")
	}
	if d.State(Timer0) != TimerStopped {
		t.Errorf("expected stopped, got %s", d.State(Timer0))
	}
}

func TestTimerDriver_Init16Bit(t *testing.T) {
	d, bank := newTimerDriver()

	if err := d.Init(&TimerConfig{ID: Timer1, Mode: ModeCTC, Initial: 61628, Compare: 0x1234}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if v, _ := d.Value(Timer1); v != 61628 {
		t.Errorf("expected count 61628, got %d", v)
	}
	if bank.Peek(m32OCR1AH) != 0x12 || bank.Peek(m32OCR1AL) != 0x34 {
		t.Errorf("compare not written high byte first: %#x %#x", bank.Peek(m32OCR1AH), bank.Peek(m32OCR1AL))
	}
	if bank.Peek(m32TIMSK)&(1<<4) == 0 {
		t.Error("expected OCIE1A set in CTC mode")
	}
	if mode, ok := ATmega32.Timer(Timer1).ModeOf(bank); !ok || mode != ModeCTC {
		t.Errorf("expected CTC mode, got %s", mode)
	}

	d.SetCompare(Timer1, 500)
	if v := ATmega32.Timer(Timer1).CompareValue(bank); v != 500 {
		t.Errorf("expected compare 500, got %d", v)
	}
	if err := d.SetCompare(TimerCount, 1); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK, got %v", err)
	}
}

func TestTimerDriver_InitRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  *TimerConfig
		want error
	}{
		{"nil config", nil, ErrNullPtr},
		{"bad id", &TimerConfig{ID: TimerCount}, ErrNOK},
		{"bad mode", &TimerConfig{ID: Timer0, Mode: modeCount}, ErrNOK},
		{"bad compare output", &TimerConfig{ID: Timer0, Mode: ModeCTC, CompareOutput: compareOutputCount}, ErrNOK},
		{"pwm toggle on 8-bit", &TimerConfig{ID: Timer0, Mode: ModeFastPWM, FastPWM: PWMToggle}, ErrNOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, bank := newTimerDriver()
			bank.Poke(m32TCNT0, 0x55)
			if err := d.Init(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if bank.Peek(m32TCNT0) != 0x55 || bank.Peek(m32TIMSK) != 0 {
				t.Error("rejected config touched the registers")
			}
		})
	}

	d, _ := newTimerDriver()
	if err := d.Init(&TimerConfig{ID: Timer1, Mode: ModeFastPWM, FastPWM: PWMToggle}); err != nil {
		t.Errorf("toggle is legal on the 16-bit timer: %v", err)
	}
}

func TestTimerDriver_StartStop(t *testing.T) {
	d, bank := newTimerDriver()
	d.Init(&TimerConfig{ID: Timer0, Mode: ModeNormal, Initial: 7})

	if err := d.Start(ClockDiv32, Timer0); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK for div32 on timer0, got %v", err)
	}
	if err := d.Start(ClockDiv1024, Timer0); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if cs := bank.Peek(m32TCCR0) & 0x07; cs != 5 {
		t.Errorf("expected CS0=5, got %d", cs)
	}
	if !ATmega32.InterruptsEnabled(bank) {
		t.Error("expected global interrupts enabled")
	}
	if d.State(Timer0) != TimerRunning {
		t.Errorf("expected running, got %s", d.State(Timer0))
	}

	d.Stop(Timer0)
	if d.State(Timer0) != TimerStopped {
		t.Errorf("expected stopped, got %s", d.State(Timer0))
	}
	if v, _ := d.Value(Timer0); v != 7 {
		t.Errorf("Stop should keep the count, got %d", v)
	}

	// Timer2 has its own prescaler table.
	d.Init(&TimerConfig{ID: Timer2})
	if err := d.Start(ClockDiv32, Timer2); err != nil {
		t.Errorf("div32 should be legal on timer2: %v", err)
	}
	if err := d.Start(ClockExternalRising, Timer2); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK for external clock on timer2, got %v", err)
	}
}

func TestTimerDriver_ResetKeepsOtherTimers(t *testing.T) {
	d, bank := newTimerDriver()
	d.Init(&TimerConfig{ID: Timer0, Mode: ModeNormal})
	d.Init(&TimerConfig{ID: Timer1, Mode: ModeNormal})
	bank.Raise(m32TIFR, 0x05) // TOV0 | TOV1

	if err := d.Reset(Timer0); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if bank.Peek(m32TIMSK) != 0x04 {
		t.Errorf("expected only TOIE1 left, got %#x", bank.Peek(m32TIMSK))
	}
	if bank.Peek(m32TIFR) != 0x04 {
		t.Errorf("expected only TOV1 left, got %#x", bank.Peek(m32TIFR))
	}
	if d.State(Timer0) != TimerUnconfigured || d.State(Timer1) != TimerStopped {
		t.Error("Reset changed the wrong timer")
	}
}

func TestTimerDriver_Handlers(t *testing.T) {
	d, bank := newTimerDriver()
	d.Init(&TimerConfig{ID: Timer2, Mode: ModeNormal})

	// No callback: the interrupt is absorbed.
	bank.Raise(m32TIFR, 1<<6)
	d.HandleOverflow(Timer2)
	if bank.Peek(m32TIFR) != 0 {
		t.Error("flag not acknowledged")
	}

	if err := d.SetCallback(nil, Timer2); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}
	fired := 0
	d.SetCallback(func() { fired++ }, Timer2)
	bank.Raise(m32TIFR, 1<<7)
	d.HandleCompare(Timer2)
	d.HandleOverflow(Timer2)
	if fired != 2 {
		t.Errorf("expected 2 callbacks, got %d", fired)
	}
	if bank.Peek(m32TIFR) != 0 {
		t.Error("compare flag not acknowledged")
	}
}

func TestOverflowPeriodNanos(t *testing.T) {
	tests := []struct {
		name    string
		clock   Clock
		width   uint8
		initial uint16
		want    uint64
	}{
		{"pwm tick", ClockDiv1024, 8, 240, 2048000},
		{"delay tick", ClockDiv1024, 16, 61628, 500224000},
		{"full range", ClockDiv8, 8, 0, 256000},
		{"stopped", ClockNone, 8, 0, 0},
	}
	for _, tt := range tests {
		if got := OverflowPeriodNanos(8000000, tt.clock, tt.width, tt.initial); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

// snapshot copies the whole register file.
func snapshot(b *MemoryBank) [bankSize]uint8 {
	var regs [bankSize]uint8
	for addr := range regs {
		regs[addr] = b.Peek(uint16(addr))
	}
	return regs
}

func TestTimerDriver_ValueRoundTrip(t *testing.T) {
	tests := []struct {
		id    TimerID
		value uint16
		want  uint16
	}{
		{Timer0, 0x1FF, 0xFF},
		{Timer0, 0x42, 0x42},
		{Timer2, 0x1FF, 0xFF},
		{Timer2, 0xAB00, 0x00},
		{Timer1, 0xBEEF, 0xBEEF},
		{Timer1, 0xFFFF, 0xFFFF},
		{Timer1, 0, 0},
	}

	for _, l := range []*Layout{ATmega32, ATmega328P} {
		for _, tt := range tests {
			d := NewTimerDriver(l, NewMemoryBank(l))
			if err := d.SetValue(tt.id, tt.value); err != nil {
				t.Fatalf("%s %s: SetValue failed: %v", l.Name, tt.id, err)
			}
			got, err := d.Value(tt.id)
			if err != nil {
				t.Fatalf("%s %s: Value failed: %v", l.Name, tt.id, err)
			}
			if got != tt.want {
				t.Errorf("%s %s: SetValue(%#x) read back %#x, want %#x", l.Name, tt.id, tt.value, got, tt.want)
			}
		}
	}
}

func TestTimerDriver_StartStopEveryClock(t *testing.T) {
	for _, l := range []*Layout{ATmega32, ATmega328P} {
		for id := Timer0; id < TimerCount; id++ {
			for clock := ClockDiv1; clock < clockCount; clock++ {
				if !l.SupportsClock(id, clock) {
					continue
				}
				bank := NewMemoryBank(l)
				d := NewTimerDriver(l, bank)
				if err := d.Init(&TimerConfig{ID: id, Mode: ModeNormal, Initial: 0x21}); err != nil {
					t.Fatalf("%s %s: Init failed: %v", l.Name, id, err)
				}

				if err := d.Start(clock, id); err != nil {
					t.Errorf("%s %s %s: Start failed: %v", l.Name, id, clock, err)
					continue
				}
				if got := l.Timer(id).ClockOf(bank); got != clock {
					t.Errorf("%s %s: expected clock %s selected, got %s", l.Name, id, clock, got)
				}
				if d.State(id) != TimerRunning {
					t.Errorf("%s %s %s: expected running, got %s", l.Name, id, clock, d.State(id))
				}

				if err := d.Stop(id); err != nil {
					t.Errorf("%s %s %s: Stop failed: %v", l.Name, id, clock, err)
				}
				if d.State(id) != TimerStopped {
					t.Errorf("%s %s %s: expected stopped, got %s", l.Name, id, clock, d.State(id))
				}
				if v, _ := d.Value(id); v != 0x21 {
					t.Errorf("%s %s %s: Stop changed the count to %#x", l.Name, id, clock, v)
				}
			}
		}
	}
}

func TestTimerDriver_InvalidIDLeavesRegisters(t *testing.T) {
	calls := []struct {
		name string
		call func(d *TimerDriver, id TimerID) error
	}{
		{"Start", func(d *TimerDriver, id TimerID) error { return d.Start(ClockDiv8, id) }},
		{"Stop", func(d *TimerDriver, id TimerID) error { return d.Stop(id) }},
		{"SetValue", func(d *TimerDriver, id TimerID) error { return d.SetValue(id, 0x1234) }},
		{"SetCompare", func(d *TimerDriver, id TimerID) error { return d.SetCompare(id, 0x1234) }},
		{"Reset", func(d *TimerDriver, id TimerID) error { return d.Reset(id) }},
		{"SetCallback", func(d *TimerDriver, id TimerID) error { return d.SetCallback(func() {}, id) }},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range []TimerID{TimerCount, 0xFF} {
				d, bank := newTimerDriver()
				d.Init(&TimerConfig{ID: Timer1, Mode: ModeCTC, Initial: 0x0102, Compare: 0x0304})
				d.Start(ClockDiv64, Timer1)
				bank.Raise(m32TIFR, 0x04)
				before := snapshot(bank)

				if err := tt.call(d, id); !errors.Is(err, ErrNOK) {
					t.Errorf("id %d: expected ErrNOK, got %v", id, err)
				}
				if snapshot(bank) != before {
					t.Errorf("id %d: registers changed", id)
				}
			}
		})
	}
}
