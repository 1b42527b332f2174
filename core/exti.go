package core

// ExtiLine identifies an external interrupt input
type ExtiLine uint8

const (
	Int0 ExtiLine = iota
	Int1
	Int2
	ExtiLineCount
)

// Edge is the sense condition of an external interrupt
type Edge uint8

const (
	EdgeLowLevel Edge = iota
	EdgeAny
	EdgeFalling
	EdgeRising
	edgeCount
)

var (
	extiNames = []string{"int0", "int1", "int2"}
	edgeNames = []string{"low_level", "any", "falling", "rising"}
)

func (l ExtiLine) String() string { return enumName(extiNames, int(l)) }

func (l *ExtiLine) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), extiNames)
	*l = ExtiLine(v)
	return err
}

func (e Edge) String() string { return enumName(edgeNames, int(e)) }

func (e *Edge) UnmarshalText(text []byte) error {
	v, err := parseEnum(string(text), edgeNames)
	*e = Edge(v)
	return err
}

// ExtiConfig selects a line and its sense condition
type ExtiConfig struct {
	Line ExtiLine
	Edge Edge
}

// ExternalInterrupt is an external interrupt line as seen by the application
type ExternalInterrupt interface {
	OnFire(handler func()) error
	Enable() error
	Disable() error
}

// ExtiDriver programs the external interrupt registers of a Layout
type ExtiDriver struct {
	layout    *Layout
	bank      RegisterBank
	callbacks [ExtiLineCount]func()
}

// NewExtiDriver creates an external interrupt driver over bank
func NewExtiDriver(l *Layout, bank RegisterBank) *ExtiDriver {
	return &ExtiDriver{layout: l, bank: bank}
}

func (d *ExtiDriver) line(l ExtiLine) (*ExtiLineLayout, error) {
	if l >= ExtiLineCount || !d.layout.Exti[l].Present {
		return nil, ErrNOK
	}
	return &d.layout.Exti[l], nil
}

// Init programs the sense bits and enables interrupts globally. The line
// itself stays masked until Enable.
func (d *ExtiDriver) Init(l ExtiLine, edge Edge) error {
	ll, err := d.line(l)
	if err != nil {
		return err
	}
	if edge >= edgeCount || !ll.Edges[edge].ok {
		return ErrNOK
	}
	clearBit(d.bank, ll.Enable)
	writeField(d.bank, ll.Sense, ll.Edges[edge].bits)
	// Changing the sense bits can latch a spurious flag.
	ackFlag(d.bank, ll.Flag)
	setBit(d.bank, d.layout.Global)
	return nil
}

// SetCallback masks the line and registers fn as its handler
func (d *ExtiDriver) SetCallback(l ExtiLine, fn func()) error {
	ll, err := d.line(l)
	if err != nil {
		return err
	}
	if fn == nil {
		return ErrNullPtr
	}
	state := disableInterrupts()
	clearBit(d.bank, ll.Enable)
	d.callbacks[l] = fn
	restoreInterrupts(state)
	return nil
}

// Enable unmasks the line. The flag latches while the line is masked, so a
// stale edge is cleared first.
func (d *ExtiDriver) Enable(l ExtiLine) error {
	ll, err := d.line(l)
	if err != nil {
		return err
	}
	if readBit(d.bank, ll.Enable) {
		return nil
	}
	ackFlag(d.bank, ll.Flag)
	setBit(d.bank, ll.Enable)
	return nil
}

// Disable masks the line; sense bits and callback are kept
func (d *ExtiDriver) Disable(l ExtiLine) error {
	ll, err := d.line(l)
	if err != nil {
		return err
	}
	clearBit(d.bank, ll.Enable)
	return nil
}

// Enabled reports whether the line is unmasked
func (d *ExtiDriver) Enabled(l ExtiLine) bool {
	ll, err := d.line(l)
	if err != nil {
		return false
	}
	return readBit(d.bank, ll.Enable)
}

// Sense returns the edge currently programmed for the line
func (d *ExtiDriver) Sense(l ExtiLine) (Edge, error) {
	ll, err := d.line(l)
	if err != nil {
		return EdgeLowLevel, err
	}
	if e, ok := ll.SenseOf(d.bank); ok {
		return e, nil
	}
	return EdgeLowLevel, ErrNOK
}

// Handle is the interrupt entry point of line l
func (d *ExtiDriver) Handle(l ExtiLine) {
	ll, err := d.line(l)
	if err != nil {
		return
	}
	ackFlag(d.bank, ll.Flag)
	if cb := d.callbacks[l]; cb != nil {
		cb()
	}
}
