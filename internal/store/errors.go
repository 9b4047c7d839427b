package store

import (
	"errors"
	"fmt"
)

// ErrPersistence matches every failure reported by the Persistence collaborator.
var ErrPersistence = errors.New("persistence failure")

// PersistenceFailure records a rejected or failed backend call. Error returns
// the backend's message unchanged so it can be shown to the user as-is.
type PersistenceFailure struct {
	Op      string
	Message string
	Err     error
}

func (f *PersistenceFailure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %s", f.Op, ErrPersistence)
}

func (f *PersistenceFailure) Unwrap() []error {
	if f.Err == nil {
		return []error{ErrPersistence}
	}
	return []error{ErrPersistence, f.Err}
}

func newFailure(op string, err error) *PersistenceFailure {
	var pf *PersistenceFailure
	if errors.As(err, &pf) {
		return pf
	}
	return &PersistenceFailure{Op: op, Message: err.Error(), Err: err}
}
