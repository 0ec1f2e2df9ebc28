package usecase

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks requests rejected before any state was touched.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// FlushError is a failed import batch. Acknowledged counts the items the
// store had already accepted when the fault happened.
type FlushError struct {
	Acknowledged int
	Err          error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("import flush failed after %d items: %v", e.Acknowledged, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}
