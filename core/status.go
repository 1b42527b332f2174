package core

import (
	"errors"
	"strconv"
)

// Errors reported by the peripheral and HAL layers
var (
	ErrNOK         = errors.New("operation failed")
	ErrNullPtr     = errors.New("missing configuration or callback")
	ErrInvalidPin  = errors.New("invalid pin")
	ErrInvalidPort = errors.New("invalid port")
)

// Status is the coarse result code every layer reports to its caller
type Status uint8

const (
	StatusOK Status = iota
	StatusNOK
	StatusNullPtr
	StatusInvalidPin
	StatusInvalidPort
)

// StatusOf maps an error returned by this package onto a Status.
// Unknown errors collapse to StatusNOK.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNullPtr):
		return StatusNullPtr
	case errors.Is(err, ErrInvalidPin):
		return StatusInvalidPin
	case errors.Is(err, ErrInvalidPort):
		return StatusInvalidPort
	default:
		return StatusNOK
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNOK:
		return "nok"
	case StatusNullPtr:
		return "null_ptr"
	case StatusInvalidPin:
		return "invalid_pin"
	case StatusInvalidPort:
		return "invalid_port"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// wrapErr prefixes err with the component name, keeping errors.Is working
func wrapErr(component string, err error) error {
	if err == nil {
		return nil
	}
	return &componentError{component: component, err: err}
}

// failed reports a coarse ErrNOK for component while keeping the lower-level
// cause in the message. errors.Is matches ErrNOK only, so aggregating layers
// report a single status the way their callers expect.
func failed(component string, cause error) error {
	if cause == nil {
		return nil
	}
	return &componentError{component: component, err: ErrNOK, cause: cause}
}

type componentError struct {
	component string
	err       error
	cause     error
}

func (e *componentError) Error() string {
	msg := e.component + ": " + e.err.Error()
	if e.cause != nil {
		msg += " (" + e.cause.Error() + ")"
	}
	return msg
}

func (e *componentError) Unwrap() error { return e.err }
