// Package errs holds the error taxonomy shared by the reducers and the
// primitives built on them.
package errs

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a caller precondition violation: a zero or
	// negative modulus, an operand out of range, a short buffer or aliased
	// input and output buffers.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState reports an operation on an object that was never
	// initialized, such as a zero-value ModularReducer.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotImplemented reports an operation the implementation does not
	// provide.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDecoding reports malformed encoded input (points, scalars,
	// wrapped keys).
	ErrDecoding = errors.New("decoding error")
)

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

// InvalidState wraps ErrInvalidState with a formatted message.
func InvalidState(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidState, format, args...)
}

// NotImplemented wraps ErrNotImplemented with the name of the operation.
func NotImplemented(op string) error {
	return errors.Wrap(ErrNotImplemented, op)
}

// Decoding wraps ErrDecoding with a formatted message.
func Decoding(format string, args ...interface{}) error {
	return errors.Wrapf(ErrDecoding, format, args...)
}
