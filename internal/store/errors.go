package store

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence = errors.New("persistence failure")

	// ErrVersionConflict reports a failed compare-and-swap on a product version.
	ErrVersionConflict = errors.New("version conflict")

	ErrDuplicate = errors.New("duplicate key")
)

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// Wrap tags err as a persistence failure of op. Version conflicts pass through
// untouched so callers can retry them.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrVersionConflict) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
