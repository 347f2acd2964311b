package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/pkg/application"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/dependency"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		exitCode int
	}{
		{"task not found", fmt.Errorf("load: %w", planning.ErrTaskNotFound), "task not found", 1},
		{"project not found", planning.ErrProjectNotFound, "project not found", 1},
		{"cycle", &dependency.CycleError{Path: []string{"a", "b", "a"}}, "dependency would create a cycle", 1},
		{"self dependency", dependency.ErrSelfDependency, "invalid dependency", 1},
		{"invalid task", planning.ErrInvalidTask, "invalid task", ExitUsage},
		{"forbidden", &access.PermissionError{UserID: "u", Action: "edit", Target: "task"}, "permission denied", ExitForbidden},
		{"expired session", session.ErrExpired, "no active session", ExitAuth},
		{"unknown user", application.ErrUnknownUser, "login failed", ExitAuth},
		{"bad export", storage.ErrInvalidExport, "import rejected", ExitUsage},
		{"bad config", config.ErrInvalidConfig, "configuration error", ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cliErr *CLIError
			if !errors.As(MapError(tt.err), &cliErr) {
				t.Fatalf("MapError(%v) is not a CLIError", tt.err)
			}
			if cliErr.Message != tt.message || cliErr.ExitCode != tt.exitCode {
				t.Errorf("got %q/%d, want %q/%d", cliErr.Message, cliErr.ExitCode, tt.message, tt.exitCode)
			}
			if !errors.Is(cliErr, tt.err) {
				t.Error("mapped error does not wrap the original")
			}
		})
	}
}

func TestMapError_Transition(t *testing.T) {
	err := MapError(&planning.TransitionError{FromStatus: planning.StatusDone, ToStatus: planning.StatusBlocked})
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("got %T", err)
	}
	if cliErr.Hint != "From done a task can move to: in_progress" {
		t.Errorf("hint = %q", cliErr.Hint)
	}
}

func TestMapError_Passthrough(t *testing.T) {
	if MapError(nil) != nil {
		t.Error("nil should stay nil")
	}
	plain := errors.New("disk on fire")
	if got := MapError(plain); got != plain {
		t.Errorf("unmapped error changed: %v", got)
	}
	cliErr := NewCLIError("x", "", nil)
	if got := MapError(cliErr); got != cliErr {
		t.Error("CLIError should pass through")
	}
}
