package window

import "errors"

var (
	// ErrInvalidSize is returned for a window length < 1.
	ErrInvalidSize = errors.New("window: size must be > 0")
	// ErrLengthMismatch is returned when samples and coefficients differ in length.
	ErrLengthMismatch = errors.New("window: samples and coefficients must have same length")
	// ErrInvalidHop is returned for a hop outside [1, len(coeffs)].
	ErrInvalidHop = errors.New("window: hop out of range")
	// ErrUnknownType is returned by ParseType for an unrecognized name.
	ErrUnknownType = errors.New("window: unknown type")
)
