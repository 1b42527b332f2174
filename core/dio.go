package core

// DIO drives the port registers of a Layout
type DIO struct {
	layout *Layout
	bank   RegisterBank
}

// NewDIO creates a DIO driver over bank
func NewDIO(l *Layout, bank RegisterBank) *DIO {
	return &DIO{layout: l, bank: bank}
}

func (d *DIO) port(port Port, pin Pin) (*PortLayout, error) {
	if port >= PortCount || !d.layout.Ports[port].Present {
		return nil, ErrInvalidPort
	}
	if pin >= PinCount {
		return nil, ErrInvalidPin
	}
	return &d.layout.Ports[port], nil
}

// Init sets the pin direction
func (d *DIO) Init(port Port, pin Pin, dir Direction) error {
	p, err := d.port(port, pin)
	if err != nil {
		return err
	}
	writeBit(d.bank, bitRef{p.Dir, uint8(pin)}, dir == Output)
	return nil
}

// WritePin drives the output latch
func (d *DIO) WritePin(port Port, pin Pin, level Level) error {
	p, err := d.port(port, pin)
	if err != nil {
		return err
	}
	writeBit(d.bank, bitRef{p.Out, uint8(pin)}, level == High)
	return nil
}

// ReadPin samples the input register
func (d *DIO) ReadPin(port Port, pin Pin) (Level, error) {
	p, err := d.port(port, pin)
	if err != nil {
		return Low, err
	}
	if readBit(d.bank, bitRef{p.In, uint8(pin)}) {
		return High, nil
	}
	return Low, nil
}

// TogglePin inverts the output latch
func (d *DIO) TogglePin(port Port, pin Pin) error {
	p, err := d.port(port, pin)
	if err != nil {
		return err
	}
	b := bitRef{p.Out, uint8(pin)}
	writeBit(d.bank, b, !readBit(d.bank, b))
	return nil
}
