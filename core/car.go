package core

import "errors"

// Car pairs two motors. Motor 1 is the left wheel, motor 2 the right one.
type Car struct {
	m1, m2 MotorDriver
}

// NewCar creates a car from two motors
func NewCar(m1, m2 MotorDriver) *Car {
	return &Car{m1: m1, m2: m2}
}

// Init initialises the motors that need it
func (c *Car) Init() error {
	if c == nil || c.m1 == nil || c.m2 == nil {
		return ErrNullPtr
	}
	var errs []error
	for _, m := range []MotorDriver{c.m1, c.m2} {
		if i, ok := m.(interface{ Init() error }); ok {
			errs = append(errs, i.Init())
		}
	}
	return failed("car init", errors.Join(errs...))
}

// Forward drives both motors forward
func (c *Car) Forward() error {
	return c.both(MotorDriver.Forward, MotorDriver.Forward)
}

// ReverseRight pivots right: motor 1 forward, motor 2 backward
func (c *Car) ReverseRight() error {
	return c.both(MotorDriver.Forward, MotorDriver.Backward)
}

// Stop halts both motors
func (c *Car) Stop() error {
	return c.both(MotorDriver.Stop, MotorDriver.Stop)
}

func (c *Car) both(f1, f2 func(MotorDriver) error) error {
	if c == nil || c.m1 == nil || c.m2 == nil {
		return ErrNullPtr
	}
	return failed("car", errors.Join(f1(c.m1), f2(c.m2)))
}
