package core

// Register8 is an 8-bit memory-mapped peripheral register.
// *volatile.Register8 from TinyGo satisfies it directly.
type Register8 interface {
	Get() uint8
	Set(value uint8)
}

// RegisterBank resolves data-space addresses to registers.
// Firmware builds map addresses straight onto the I/O space; host builds use
// a MemoryBank so drivers can be exercised without hardware.
type RegisterBank interface {
	Reg(addr uint16) Register8
}

// bitRef names a single bit inside a register.
type bitRef struct {
	reg uint16
	bit uint8
}

func (b bitRef) mask() uint8 { return 1 << b.bit }

func (b bitRef) valid() bool { return b.reg != 0 }

// field names a contiguous group of bits inside a register.
type field struct {
	reg   uint16
	shift uint8
	mask  uint8 // unshifted
}

func (f field) valid() bool { return f.reg != 0 }

func setBit(bank RegisterBank, b bitRef) {
	if !b.valid() {
		return
	}
	r := bank.Reg(b.reg)
	r.Set(r.Get() | b.mask())
}

func clearBit(bank RegisterBank, b bitRef) {
	if !b.valid() {
		return
	}
	r := bank.Reg(b.reg)
	r.Set(r.Get() &^ b.mask())
}

func writeBit(bank RegisterBank, b bitRef, on bool) {
	if on {
		setBit(bank, b)
	} else {
		clearBit(bank, b)
	}
}

func readBit(bank RegisterBank, b bitRef) bool {
	if !b.valid() {
		return false
	}
	return bank.Reg(b.reg).Get()&b.mask() != 0
}

// ackFlag clears an interrupt flag. AVR flag registers are write-one-to-clear,
// so only the flag's own bit is written; the other flags are untouched.
func ackFlag(bank RegisterBank, b bitRef) {
	if !b.valid() {
		return
	}
	bank.Reg(b.reg).Set(b.mask())
}

func writeField(bank RegisterBank, f field, value uint8) {
	if !f.valid() {
		return
	}
	r := bank.Reg(f.reg)
	m := f.mask << f.shift
	r.Set(r.Get()&^m | (value<<f.shift)&m)
}

func readField(bank RegisterBank, f field) uint8 {
	if !f.valid() {
		return 0
	}
	return (bank.Reg(f.reg).Get() >> f.shift) & f.mask
}

func clearReg(bank RegisterBank, addr uint16) {
	if addr == 0 {
		return
	}
	bank.Reg(addr).Set(0)
}
