package triage

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacity is returned when the store already holds MaxCases cases.
	ErrCapacity = errors.New("case store at capacity")

	// ErrNoPending is returned when an operation needs at least one case.
	ErrNoPending = errors.New("no pending cases")

	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("no matching case")
)

// ValidationError reports rejected operator input. The operation it aborted
// left the store untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistError reports a failed write to the case log. The in-memory change
// that triggered the write is kept: the store stays authoritative for the
// session and the log is caught up by the next successful rewrite.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: case log write failed: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
