package core

import (
	"errors"
	"testing"
)

func newExti() (*ExtiManager, *ExtiDriver, *MemoryBank) {
	bank := NewMemoryBank(ATmega32)
	d := NewExtiDriver(ATmega32, bank)
	return NewExtiManager(d), d, bank
}

func TestExti_InitProgramsSense(t *testing.T) {
	tests := []struct {
		line  ExtiLine
		edge  Edge
		reg   uint16
		mask  uint8
		value uint8
	}{
		{Int0, EdgeFalling, m32MCUCR, 0x03, 0x02},
		{Int0, EdgeAny, m32MCUCR, 0x03, 0x01},
		{Int1, EdgeRising, m32MCUCR, 0x0C, 0x0C},
		{Int2, EdgeRising, m32MCUCSR, 0x40, 0x40},
	}

	for _, tt := range tests {
		_, d, bank := newExti()
		if err := d.Init(tt.line, tt.edge); err != nil {
			t.Fatalf("%s/%s: Init failed: %v", tt.line, tt.edge, err)
		}
		if got := bank.Peek(tt.reg) & tt.mask; got != tt.value {
			t.Errorf("%s/%s: expected sense %#x, got %#x", tt.line, tt.edge, tt.value, got)
		}
		if e, err := d.Sense(tt.line); err != nil || e != tt.edge {
			t.Errorf("%s: Sense returned %s, %v", tt.line, e, err)
		}
		if d.Enabled(tt.line) {
			t.Errorf("%s: Init should leave the line masked", tt.line)
		}
		if !ATmega32.InterruptsEnabled(bank) {
			t.Error("expected global interrupts enabled")
		}
	}
}

func TestExti_Rejects(t *testing.T) {
	_, d, bank := newExti()

	if err := d.Init(Int2, EdgeAny); !errors.Is(err, ErrNOK) {
		t.Errorf("INT2 cannot sense any edge, got %v", err)
	}
	if err := d.Init(ExtiLineCount, EdgeFalling); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK for bad line, got %v", err)
	}
	if bank.Peek(m32MCUCSR) != 0 || ATmega32.InterruptsEnabled(bank) {
		t.Error("rejected Init touched the registers")
	}

	// INT2 is not present on the ATmega328P.
	d328 := NewExtiDriver(ATmega328P, NewMemoryBank(ATmega328P))
	if err := d328.Init(Int2, EdgeFalling); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK for INT2 on atmega328p, got %v", err)
	}
}

func TestExti_ManagedLine(t *testing.T) {
	m, d, bank := newExti()
	line := m.Line(ExtiConfig{Line: Int0, Edge: EdgeFalling})

	if err := line.OnFire(nil); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}
	fired := 0
	if err := line.OnFire(func() { fired++ }); err != nil {
		t.Fatalf("OnFire failed: %v", err)
	}

	bank.Raise(m32GIFR, 1<<6)
	if err := line.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if bank.Peek(m32GIFR) != 0 {
		t.Error("Enable should drop a stale flag")
	}
	if bank.Peek(m32GICR)&(1<<6) == 0 {
		t.Error("expected INT0 unmasked")
	}

	bank.Raise(m32GIFR, 1<<6)
	if !ATmega32.Exti[Int0].Pending(bank) {
		t.Fatal("expected INT0 pending")
	}
	d.Handle(Int0)
	if fired != 1 || bank.Peek(m32GIFR) != 0 {
		t.Errorf("Handle: fired=%d flags=%#x", fired, bank.Peek(m32GIFR))
	}

	// Re-enabling an enabled line keeps a pending edge.
	bank.Raise(m32GIFR, 1<<6)
	line.Enable()
	if bank.Peek(m32GIFR) == 0 {
		t.Error("Enable on an enabled line dropped a pending edge")
	}

	line.Disable()
	if d.Enabled(Int0) {
		t.Error("expected INT0 masked")
	}
	if e, _ := d.Sense(Int0); e != EdgeFalling {
		t.Error("Disable should keep the sense bits")
	}
}

func TestExti_ManagerNilConfig(t *testing.T) {
	m, _, _ := newExti()
	if err := m.Init(nil, func() {}); !errors.Is(err, ErrNullPtr) {
		t.Errorf("Init: expected ErrNullPtr, got %v", err)
	}
	if err := m.Enable(nil); !errors.Is(err, ErrNullPtr) {
		t.Errorf("Enable: expected ErrNullPtr, got %v", err)
	}
	if err := m.Disable(nil); !errors.Is(err, ErrNullPtr) {
		t.Errorf("Disable: expected ErrNullPtr, got %v", err)
	}
}
