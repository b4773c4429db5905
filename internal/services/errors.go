package services

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound        = errors.New("job config not found")
	ErrDeleteNotConfirmed = errors.New("delete must be confirmed")
)

// ValidationError rejects an operator action before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
