package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/dependency"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// Exit codes beyond the generic 1.
const (
	ExitUsage     = 2
	ExitForbidden = 3
	ExitAuth      = 4
)

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var transErr *planning.TransitionError
	if errors.As(err, &transErr) {
		return NewCLIError(
			transErr.Error(),
			fmt.Sprintf("From %s a task can move to: %s", transErr.FromStatus, allowedTargets(transErr.FromStatus)),
			err,
		)
	}

	var cycleErr *dependency.CycleError
	if errors.As(err, &cycleErr) {
		return NewCLIError("dependency would create a cycle", "Pick a prerequisite that does not depend on this task", err)
	}

	switch {
	case errors.Is(err, planning.ErrTaskNotFound):
		return NewCLIError("task not found", "Run 'nihulit task list' to see task ids", err)
	case errors.Is(err, planning.ErrProjectNotFound):
		return NewCLIError("project not found", "Check the project id", err)
	case errors.Is(err, dependency.ErrDependencyNotFound):
		return NewCLIError("prerequisite task not found", "Run 'nihulit task list' to see task ids", err)
	case errors.Is(err, dependency.ErrSelfDependency), errors.Is(err, dependency.ErrCrossProject):
		return NewCLIError("invalid dependency", "A task can only depend on another task of the same project", err)
	case errors.Is(err, planning.ErrInvalidTask):
		return &CLIError{Message: "invalid task", Err: err, ExitCode: ExitUsage}
	case errors.Is(err, access.ErrForbidden):
		return &CLIError{Message: "permission denied", Hint: "Log in as a user with access: nihulit login <username>", Err: err, ExitCode: ExitForbidden}
	case errors.Is(err, session.ErrExpired), errors.Is(err, session.ErrNotFound):
		return &CLIError{Message: "no active session", Hint: "Run 'nihulit login <username>'", Err: err, ExitCode: ExitAuth}
	case errors.Is(err, application.ErrUnknownUser), errors.Is(err, application.ErrInactiveUser):
		return &CLIError{Message: "login failed", Hint: "Ask an administrator to create or activate the user", Err: err, ExitCode: ExitAuth}
	case errors.Is(err, storage.ErrInvalidExport):
		return &CLIError{Message: "import rejected", Hint: "The file must be a JSON export with tasks, projects, users and payments arrays", Err: err, ExitCode: ExitUsage}
	case errors.Is(err, config.ErrInvalidConfig):
		return &CLIError{Message: "configuration error", Hint: "Check nihulit.yaml and NIHULIT_* variables", Err: err, ExitCode: ExitUsage}
	}
	return err
}

func allowedTargets(from planning.TaskStatus) string {
	var out []string
	for _, s := range planning.AllTaskStatuses() {
		if s != from && from.CanTransitionTo(s) {
			out = append(out, string(s))
		}
	}
	if len(out) == 0 {
		return "(none)"
	}
	return strings.Join(out, ", ")
}
