package domain

import (
	"errors"
	"fmt"
)

// Caller-visible engine errors. None of these are retried internally; a storage
// race that violates the (task, event type) uniqueness constraint must surface
// as ErrDuplicateEvent, never as a raw driver error.
var (
	// The referenced task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// A FINAL event is already recorded; the task accepts no further events.
	ErrTaskLocked = errors.New("task is locked: final delivery already recorded")

	// An event of the submitted type is already recorded for this task.
	ErrDuplicateEvent = errors.New("event of this type already recorded for task")
)

// Describes a malformed input rejected before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
