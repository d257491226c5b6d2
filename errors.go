package comport

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these with errors.Is.
var (
	ErrNotFound            = errors.New("serial device not found")
	ErrAlreadyInUse        = errors.New("serial device already in use")
	ErrOpenFailed          = errors.New("failed to open serial device")
	ErrConfigurationFailed = errors.New("serial configuration failed")
	ErrUnsupported         = errors.New("setting not supported on this platform")
	ErrUnexpectedValue     = errors.New("unexpected native setting value")
	ErrInvalidBuffer       = errors.New("buffer rejected by the operating system")
	ErrResourceExhausted   = errors.New("too many pending I/O requests")
	ErrInterrupted         = errors.New("operation interrupted")
	ErrIOFailed            = errors.New("serial I/O failed")

	ErrPortClosed    = errors.New("serial port is closed")
	ErrInvalidConfig = errors.New("invalid serial configuration")
	ErrCloseFailed   = errors.New("failed to release serial device handle")
)

// Error records a failed operation on a serial port. It carries the error
// kind, the raw native code when there is one, and the underlying cause.
type Error struct {
	Op   string // "open", "read", "set parity", ...
	Port string
	Kind error
	Code uint64 // raw errno / Win32 error code or native setting value, 0 if none
	Err  error
}

func (e *Error) Error() string {
	msg := "comport: " + e.Op
	if e.Port != "" {
		msg += " " + e.Port
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// codeError is the cause attached to ErrIOFailed and ErrUnexpectedValue so the
// raw native value shows up in the message.
type codeError struct {
	what string
	code uint64
}

func (c codeError) Error() string {
	return fmt.Sprintf("%s 0x%x", c.what, c.code)
}

// kindError builds a portless *Error; annotate fills in the operation and
// port name once it reaches the Port.
func kindError(kind error, code uint64, err error) *Error {
	return &Error{Kind: kind, Code: code, Err: err}
}

// annotate returns err with op and name attached. Errors that are not an
// *Error yet are classified as ErrIOFailed.
func annotate(op, name string, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		e := *pe
		e.Op, e.Port = op, name
		return &e
	}
	return &Error{Op: op, Port: name, Kind: ErrIOFailed, Err: err}
}
