package database

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("a collection with this name already exists")
)

// Error names the storage operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err and leaves sentinel errors recognisable
// through errors.Is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Op: op, Err: err}
}

// PartialWriteError reports a batch whose commit failed after some of its
// writes were already acknowledged by the store.
type PartialWriteError struct {
	Written int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("batch failed after %d writes: %v", e.Written, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
