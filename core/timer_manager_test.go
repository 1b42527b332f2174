package core

import (
	"errors"
	"testing"
)

func TestTimerManager_Init(t *testing.T) {
	d, _ := newTimerDriver()
	m := NewTimerManager(d)

	if err := m.Init(nil); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}
	if err := m.Init(&TimerConfig{ID: TimerCount}); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK, got %v", err)
	}

	fired := 0
	if err := m.Init(&TimerConfig{ID: Timer0, Initial: 240, Callback: func() { fired++ }}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	d.HandleOverflow(Timer0)
	if fired != 1 {
		t.Error("callback given to Init was not registered")
	}
}

func TestTimerManager_RejectsBadArguments(t *testing.T) {
	d, _ := newTimerDriver()
	m := NewTimerManager(d)

	if err := m.Start(clockCount, Timer0); !errors.Is(err, ErrNOK) {
		t.Errorf("Start: expected ErrNOK, got %v", err)
	}
	if err := m.Stop(TimerCount); !errors.Is(err, ErrNOK) {
		t.Errorf("Stop: expected ErrNOK, got %v", err)
	}
	if err := m.SetValue(TimerCount, 1); !errors.Is(err, ErrNOK) {
		t.Errorf("SetValue: expected ErrNOK, got %v", err)
	}
	if _, err := m.Timer(Timer1, ClockDiv128); !errors.Is(err, ErrNOK) {
		t.Errorf("Timer: expected ErrNOK for div128 on timer1, got %v", err)
	}
}

func TestTimerManager_RejectedCallsLeaveRegisters(t *testing.T) {
	tests := []struct {
		name string
		call func(m *TimerManager) error
	}{
		{"start bad id", func(m *TimerManager) error { return m.Start(ClockDiv8, TimerCount) }},
		{"start bad clock", func(m *TimerManager) error { return m.Start(ClockDiv32, Timer0) }},
		{"stop bad id", func(m *TimerManager) error { return m.Stop(TimerCount) }},
		{"set value bad id", func(m *TimerManager) error { return m.SetValue(0xFF, 0x1FF) }},
		{"init bad id", func(m *TimerManager) error { return m.Init(&TimerConfig{ID: TimerCount, Initial: 9}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, bank := newTimerDriver()
			m := NewTimerManager(d)
			m.Init(&TimerConfig{ID: Timer0, Initial: 240})
			before := snapshot(bank)

			if err := tt.call(m); !errors.Is(err, ErrNOK) {
				t.Errorf("expected ErrNOK, got %v", err)
			}
			if snapshot(bank) != before {
				t.Error("registers changed")
			}
		})
	}
}

func TestManagedTimer(t *testing.T) {
	d, bank := newTimerDriver()
	m := NewTimerManager(d)
	if err := m.Init(&TimerConfig{ID: Timer1, Initial: 61628}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	timer, err := m.Timer(Timer1, ClockDiv1024)
	if err != nil {
		t.Fatalf("Timer failed: %v", err)
	}
	if timer.ID() != Timer1 {
		t.Errorf("expected timer1, got %s", timer.ID())
	}

	var _ Timer = timer
	if err := timer.OnFire(func() {}); err != nil {
		t.Fatalf("OnFire failed: %v", err)
	}
	if err := timer.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if ATmega32.Timer(Timer1).ClockOf(bank) != ClockDiv1024 {
		t.Error("expected div1024 selected")
	}

	timer.SetValue(3)
	if v, _ := d.Value(Timer1); v != 3 {
		t.Errorf("expected count 3, got %d", v)
	}
	timer.Rearm()
	if v, _ := d.Value(Timer1); v != 61628 {
		t.Errorf("Rearm: expected 61628, got %d", v)
	}

	timer.Stop()
	if d.State(Timer1) != TimerStopped {
		t.Errorf("expected stopped, got %s", d.State(Timer1))
	}
}

func TestTimerEnumText(t *testing.T) {
	var id TimerID
	if err := id.UnmarshalText([]byte("t2")); err != nil || id != Timer2 {
		t.Errorf("t2: got %s, %v", id, err)
	}
	if err := id.UnmarshalText([]byte("Timer1")); err != nil || id != Timer1 {
		t.Errorf("Timer1: got %s, %v", id, err)
	}
	if err := id.UnmarshalText([]byte("timer3")); !errors.Is(err, ErrNOK) {
		t.Errorf("timer3: expected ErrNOK, got %v", err)
	}

	var c Clock
	if err := c.UnmarshalText([]byte("div1024")); err != nil || c != ClockDiv1024 {
		t.Errorf("div1024: got %s, %v", c, err)
	}
	if ClockDiv1024.Divider() != 1024 || ClockExternalFalling.Divider() != 0 {
		t.Error("unexpected divider")
	}
}
