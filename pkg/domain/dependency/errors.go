package dependency

import (
	"errors"
	"strings"
)

// Dependency domain errors.
var (
	// ErrCyclicDependency indicates a cycle was detected in the dependency graph.
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	// ErrDependencyNotFound indicates the prerequisite task does not exist.
	ErrDependencyNotFound = errors.New("dependency not found")
	// ErrSelfDependency indicates a task cannot depend on itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")
	// ErrCrossProject indicates the prerequisite belongs to another project.
	ErrCrossProject = errors.New("dependency must be in the same project")
)

// CycleError reports the chain that a new edge would close.
type CycleError struct {
	// Path starts at the task gaining the dependency and follows
	// prerequisites back to it.
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Path, " -> ")
}

// Is allows errors.Is to work with CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}
