// Package errz defines the error types shared by the compilation pipeline.
//
// Two failure modes are kept strictly apart. Inputs the backend does not
// support (structural limits, constant kinds it cannot pool) surface as
// ordinary error values so a driver can collect them and keep going.
// Inconsistent use of the emission API itself is a bug in the caller and
// panics with an "internal error:" message instead.
package errz

import (
	"errors"
	"fmt"
)

// UnsupportedError reports an input construct the backend cannot compile.
// It is a value judgment about the input, never about the backend's own
// state.
type UnsupportedError struct {
	// Function names the function being compiled when the construct was
	// encountered. May be empty for unit-level failures.
	Function string

	// Message describes the unsupported construct.
	Message string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("unsupported: %s", e.Message)
	}
	return fmt.Sprintf("unsupported: %s (in %s)", e.Message, e.Function)
}

// Unsupportedf creates an UnsupportedError with a formatted message.
func Unsupportedf(function, format string, args ...any) *UnsupportedError {
	return &UnsupportedError{
		Function: function,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsUnsupported reports whether err is, or wraps, an UnsupportedError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}
