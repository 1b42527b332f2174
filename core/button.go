package core

// ButtonState is the debounced state of a push button
type ButtonState uint8

const (
	Released ButtonState = iota
	Pressed
)

func (s ButtonState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// Debounce settings: a press is accepted when at least Threshold low samples
// are seen within a window of CheckingTime samples.
type Debounce struct {
	CheckingTime uint16 `json:"checking_time" yaml:"checking_time"`
	Threshold    uint16 `json:"threshold" yaml:"threshold"`
}

// DefaultDebounce matches the tuning of the reference board
var DefaultDebounce = Debounce{CheckingTime: 100, Threshold: 20}

// Button is an active-low push button on a digital input
type Button struct {
	dio      DIODriver
	pin      PinRef
	debounce Debounce
}

// NewButton creates a button on pin
func NewButton(dio DIODriver, pin PinRef, debounce Debounce) *Button {
	return &Button{dio: dio, pin: pin, debounce: debounce}
}

// Init configures the pin as an input
func (b *Button) Init() error {
	if b == nil || b.dio == nil {
		return ErrNullPtr
	}
	return b.dio.Init(b.pin.Port, b.pin.Pin, Input)
}

// State samples the pin and debounces a low reading. A high first sample
// returns immediately; a low one polls the pin CheckingTime more times and
// counts the low samples, so contact bounce inside the window is tolerated.
func (b *Button) State() (ButtonState, error) {
	if b == nil || b.dio == nil {
		return Released, ErrNullPtr
	}
	level, err := b.dio.ReadPin(b.pin.Port, b.pin.Pin)
	if err != nil {
		return Released, err
	}
	if level != Low {
		return Released, nil
	}

	lows := uint16(1)
	for i := uint16(0); i < b.debounce.CheckingTime; i++ {
		level, err = b.dio.ReadPin(b.pin.Port, b.pin.Pin)
		if err != nil {
			return Released, err
		}
		if level == Low {
			lows++
		}
	}
	if lows >= b.debounce.Threshold {
		return Pressed, nil
	}
	return Released, nil
}

// Pressed reports whether the button is held down
func (b *Button) Pressed() (bool, error) {
	s, err := b.State()
	return s == Pressed, err
}
