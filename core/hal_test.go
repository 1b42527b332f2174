package core

import (
	"errors"
	"testing"
)

// scriptedDIO returns queued levels from ReadPin and records writes.
type scriptedDIO struct {
	reads  []Level
	writes map[PinRef]Level
	dirs   map[PinRef]Direction
	err    error
}

func newScriptedDIO(reads ...Level) *scriptedDIO {
	return &scriptedDIO{reads: reads, writes: map[PinRef]Level{}, dirs: map[PinRef]Direction{}}
}

func (s *scriptedDIO) Init(port Port, pin Pin, dir Direction) error {
	s.dirs[PinRef{port, pin}] = dir
	return s.err
}

func (s *scriptedDIO) WritePin(port Port, pin Pin, level Level) error {
	s.writes[PinRef{port, pin}] = level
	return s.err
}

func (s *scriptedDIO) ReadPin(port Port, pin Pin) (Level, error) {
	if len(s.reads) == 0 {
		return High, s.err
	}
	l := s.reads[0]
	s.reads = s.reads[1:]
	return l, s.err
}

func (s *scriptedDIO) TogglePin(port Port, pin Pin) error { return s.err }

func lows(n int) []Level {
	out := make([]Level, n)
	for i := range out {
		out[i] = Low
	}
	return out
}

// chatter alternates low and high readings, n of each.
func chatter(n int) []Level {
	out := make([]Level, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, Low, High)
	}
	return out
}

func TestButton_Debounce(t *testing.T) {
	pin := PinRef{PortD, Pin3}
	deb := Debounce{CheckingTime: 100, Threshold: 20}

	tests := []struct {
		name  string
		reads []Level
		want  ButtonState
	}{
		{"idle high", []Level{High}, Released},
		{"held low", lows(200), Pressed},
		{"exactly threshold", append(lows(20), High), Pressed},
		{"bounce below threshold", append(lows(19), High), Released},
		{"bounced press", append([]Level{Low, High}, lows(60)...), Pressed},
		{"chatter", chatter(30), Pressed},
		{"release after glitch", []Level{Low, High, Low, High}, Released},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dio := newScriptedDIO(tt.reads...)
			b := NewButton(dio, pin, deb)
			if err := b.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if dio.dirs[pin] != Input {
				t.Error("button pin should be an input")
			}
			got, err := b.State()
			if err != nil {
				t.Fatalf("State failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestButton_Errors(t *testing.T) {
	var nilButton *Button
	if _, err := nilButton.Pressed(); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}

	dio := newScriptedDIO(Low)
	dio.err = ErrInvalidPin
	b := NewButton(dio, PinRef{PortD, Pin3}, DefaultDebounce)
	if pressed, err := b.Pressed(); pressed || !errors.Is(err, ErrInvalidPin) {
		t.Errorf("expected ErrInvalidPin, got %v %v", pressed, err)
	}
}

func TestLED(t *testing.T) {
	pin := PinRef{PortA, Pin5}
	dio := newScriptedDIO()
	led := NewLED(dio, pin)

	if err := led.Init(); err != nil || dio.dirs[pin] != Output {
		t.Fatalf("Init: %v, dir %d", err, dio.dirs[pin])
	}
	led.On()
	if dio.writes[pin] != High {
		t.Error("On should drive high")
	}
	led.Off()
	if dio.writes[pin] != Low {
		t.Error("Off should drive low")
	}
	if err := NewLED(nil, pin).On(); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}
}

type recordingMotor struct {
	last string
	err  error
}

func (m *recordingMotor) Forward() error  { m.last = "forward"; return m.err }
func (m *recordingMotor) Backward() error { m.last = "backward"; return m.err }
func (m *recordingMotor) Stop() error     { m.last = "stop"; return m.err }

func TestCar(t *testing.T) {
	left, right := &recordingMotor{}, &recordingMotor{}
	car := NewCar(left, right)
	if err := car.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		name        string
		do          func() error
		left, right string
	}{
		{"forward", car.Forward, "forward", "forward"},
		{"reverse right", car.ReverseRight, "forward", "backward"},
		{"stop", car.Stop, "stop", "stop"},
	}
	for _, tt := range tests {
		if err := tt.do(); err != nil {
			t.Fatalf("%s failed: %v", tt.name, err)
		}
		if left.last != tt.left || right.last != tt.right {
			t.Errorf("%s: expected %s/%s, got %s/%s", tt.name, tt.left, tt.right, left.last, right.last)
		}
	}

	right.err = ErrInvalidPort
	if err := car.Forward(); !errors.Is(err, ErrNOK) {
		t.Errorf("expected motor error to collapse to ErrNOK, got %v", err)
	}
	if left.last != "forward" {
		t.Error("left motor should still be driven when the right one fails")
	}

	if err := NewCar(left, nil).Stop(); !errors.Is(err, ErrNullPtr) {
		t.Errorf("expected ErrNullPtr, got %v", err)
	}
}

func TestMotor_Pins(t *testing.T) {
	bank := NewMemoryBank(ATmega32)
	dio := NewDIO(ATmega32, bank)
	pins := MotorPins{A: PinRef{PortA, Pin3}, B: PinRef{PortA, Pin4}}
	m := NewMotor(dio, pins)
	if err := m.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	port := ATmega32.Ports[PortA]
	if bank.Peek(port.Dir) != 0x18 {
		t.Errorf("expected DDRA=0x18, got %#x", bank.Peek(port.Dir))
	}
	m.Forward()
	if bank.Peek(port.Out) != 0x08 {
		t.Errorf("forward: expected PORTA=0x08, got %#x", bank.Peek(port.Out))
	}
	m.Backward()
	if bank.Peek(port.Out) != 0x10 {
		t.Errorf("backward: expected PORTA=0x10, got %#x", bank.Peek(port.Out))
	}
	m.Stop()
	if bank.Peek(port.Out) != 0 {
		t.Errorf("stop: expected PORTA=0, got %#x", bank.Peek(port.Out))
	}

	bad := NewMotor(dio, MotorPins{A: PinRef{PortA, Pin3}, B: PinRef{PortA, 9}})
	if err := bad.Forward(); !errors.Is(err, ErrNOK) {
		t.Errorf("expected ErrNOK, got %v", err)
	}
}

func TestDIO_Errors(t *testing.T) {
	dio := NewDIO(ATmega328P, NewMemoryBank(ATmega328P))
	if err := dio.Init(PortA, Pin0, Output); !errors.Is(err, ErrInvalidPort) {
		t.Errorf("atmega328p has no port A, got %v", err)
	}
	if err := dio.WritePin(PortB, PinCount, High); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("expected ErrInvalidPin, got %v", err)
	}
	if _, err := dio.ReadPin(PortCount, Pin0); !errors.Is(err, ErrInvalidPort) {
		t.Errorf("expected ErrInvalidPort, got %v", err)
	}

	dio.Init(PortB, Pin5, Output)
	dio.TogglePin(PortB, Pin5)
	if ATmega328P.Ports[PortB].Output(dio.bank, Pin5) != High {
		t.Error("toggle should drive the pin high")
	}
}

func TestPinRef_Text(t *testing.T) {
	var p PinRef
	for _, s := range []string{"PA5", "pa5", "A5", " PA5 "} {
		if err := p.UnmarshalText([]byte(s)); err != nil || p != (PinRef{PortA, Pin5}) {
			t.Errorf("%q: got %v, %v", s, p, err)
		}
	}
	for _, s := range []string{"", "P5", "PAA", "PA10"} {
		if err := p.UnmarshalText([]byte(s)); !errors.Is(err, ErrNOK) {
			t.Errorf("%q: expected ErrNOK, got %v", s, err)
		}
	}
	if b, _ := (PinRef{PortD, Pin2}).MarshalText(); string(b) != "PD2" {
		t.Errorf("expected PD2, got %s", b)
	}
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{nil, StatusOK},
		{ErrNOK, StatusNOK},
		{wrapErr("led", ErrNullPtr), StatusNullPtr},
		{errors.Join(errors.New("x"), ErrInvalidPin), StatusInvalidPin},
		{ErrInvalidPort, StatusInvalidPort},
		{errors.New("other"), StatusNOK},
	}
	for _, tt := range tests {
		if got := StatusOf(tt.err); got != tt.want {
			t.Errorf("StatusOf(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}
