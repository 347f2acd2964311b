package planning

import (
	"errors"
	"fmt"
)

// Domain errors for task planning.
var (
	// ErrTaskNotFound indicates the task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectNotFound indicates the project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidTransition indicates the requested status transition is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidTask indicates a task failed validation.
	ErrInvalidTask = errors.New("invalid task")
)

// TransitionError provides details about an invalid transition.
type TransitionError struct {
	TaskID     string
	FromStatus TaskStatus
	ToStatus   TaskStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition task %s from %s to %s", e.TaskID, e.FromStatus, e.ToStatus)
}

// Is allows errors.Is to work with TransitionError.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid task " + e.Field + ": " + e.Reason
}

// Is allows errors.Is to work with ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTask
}
