package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation references an unknown id or key.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a persisted document changed since it was
	// read and kept changing across every retry of the write.
	ErrConflict = errors.New("document was modified by another writer")
	// ErrNoWorkItemSelected is returned by timer actions when no item can be bound.
	ErrNoWorkItemSelected = errors.New("no work item selected")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// TransitionError reports a state change that is not allowed.
type TransitionError struct {
	From   string
	To     string
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %q to %q: %s", e.From, e.To, e.Reason)
}

// CorruptDataError reports a persisted document that could not be decoded.
// The owning store has already fallen back to its default data when this is returned.
type CorruptDataError struct {
	Key string
	Err error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt document %q (defaults restored): %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }
