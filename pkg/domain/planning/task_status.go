package planning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not_started"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
	StatusCancelled  TaskStatus = "cancelled"
)

// Transition events.
const (
	EventStart    = "start"
	EventBlock    = "block"
	EventUnblock  = "unblock"
	EventComplete = "complete"
	EventCancel   = "cancel"
	EventReopen   = "reopen"
	EventRestore  = "restore"
)

// validTransitions defines the allowed state transitions and their events.
// Map: currentStatus -> event -> targetStatus
var validTransitions = map[TaskStatus]map[string]TaskStatus{
	StatusNotStarted: {
		EventStart:    StatusInProgress,
		EventComplete: StatusDone,
		EventBlock:    StatusBlocked,
		EventCancel:   StatusCancelled,
	},
	StatusInProgress: {
		EventComplete: StatusDone,
		EventBlock:    StatusBlocked,
		EventCancel:   StatusCancelled,
	},
	StatusBlocked: {
		EventUnblock:  StatusInProgress,
		EventComplete: StatusDone,
		EventCancel:   StatusCancelled,
	},
	StatusDone: {
		EventReopen: StatusInProgress,
	},
	StatusCancelled: {
		EventRestore: StatusNotStarted,
	},
}

// legacyStatusLabels maps the display labels found in exported documents.
var legacyStatusLabels = map[string]TaskStatus{
	"טרם התחיל": StatusNotStarted,
	"בתהליך":    StatusInProgress,
	"תקוע":      StatusBlocked,
	"הושלם":     StatusDone,
	"בוטל":      StatusCancelled,
}

// AllTaskStatuses returns all valid task statuses.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		StatusNotStarted,
		StatusInProgress,
		StatusBlocked,
		StatusDone,
		StatusCancelled,
	}
}

// IsValid returns true if the status is a valid task status.
func (s TaskStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the task is Done or Cancelled. Terminal tasks
// are never late.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransitionTo returns true if a single event moves s to target.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	_, ok := s.EventFor(target)
	return ok
}

// EventFor returns the event that moves s to target.
func (s TaskStatus) EventFor(target TaskStatus) (string, bool) {
	for event, t := range validTransitions[s] {
		if t == target {
			return event, true
		}
	}
	return "", false
}

// CanTransitionWith returns true if the given event can trigger a transition from this status.
func (s TaskStatus) CanTransitionWith(event string) bool {
	_, ok := validTransitions[s][event]
	return ok
}

// TransitionWith returns the target status for a given event, or an error if not allowed.
func (s TaskStatus) TransitionWith(event string) (TaskStatus, error) {
	transitions, ok := validTransitions[s]
	if !ok {
		return s, fmt.Errorf("no transitions defined for status: %s", s)
	}

	target, ok := transitions[event]
	if !ok {
		return s, fmt.Errorf("event '%s' not allowed from status '%s'", event, s)
	}

	return target, nil
}

// ValidEvents returns all valid events that can be triggered from this status.
func (s TaskStatus) ValidEvents() []string {
	transitions, ok := validTransitions[s]
	if !ok {
		return nil
	}

	events := make([]string, 0, len(transitions))
	for event := range transitions {
		events = append(events, event)
	}
	return events
}

// DisplayName returns a human-readable display name for the status.
func (s TaskStatus) DisplayName() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// ParseTaskStatus parses a status name. Legacy display labels and the
// hyphen/space variants of the canonical names are accepted.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if status, ok := legacyStatusLabels[strings.TrimSpace(s)]; ok {
		return status, nil
	}
	status := TaskStatus(normalizeName(s))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return status, nil
}

// MarshalJSON implements json.Marshaler interface.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// A task document without a status has never been touched.
	if str == "" {
		*s = StatusNotStarted
		return nil
	}

	status, err := ParseTaskStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
