package core

// LED is an indicator on a digital output pin, active high
type LED struct {
	dio DIODriver
	pin PinRef
}

// NewLED creates an LED on pin
func NewLED(dio DIODriver, pin PinRef) *LED {
	return &LED{dio: dio, pin: pin}
}

// Init configures the pin as an output
func (l *LED) Init() error {
	if l == nil || l.dio == nil {
		return ErrNullPtr
	}
	return l.dio.Init(l.pin.Port, l.pin.Pin, Output)
}

// On lights the LED
func (l *LED) On() error {
	if l == nil || l.dio == nil {
		return ErrNullPtr
	}
	return l.dio.WritePin(l.pin.Port, l.pin.Pin, High)
}

// Off extinguishes the LED
func (l *LED) Off() error {
	if l == nil || l.dio == nil {
		return ErrNullPtr
	}
	return l.dio.WritePin(l.pin.Port, l.pin.Pin, Low)
}

// Pin returns the pin the LED is wired to
func (l *LED) Pin() PinRef { return l.pin }
