package frame

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned for inconsistent frame, hop or offset values.
var ErrInvalidGeometry = errors.New("frame: invalid geometry")

func validateGeometry(frameSize, hop, offset int) error {
	if frameSize < 1 {
		return fmt.Errorf("%w: frame size must be > 0: %d", ErrInvalidGeometry, frameSize)
	}
	if hop < 1 || hop > frameSize {
		return fmt.Errorf("%w: hop must be in [1, %d]: %d", ErrInvalidGeometry, frameSize, hop)
	}
	if offset < 0 || offset >= hop {
		return fmt.Errorf("%w: offset must be in [0, %d): %d", ErrInvalidGeometry, hop, offset)
	}
	return nil
}
