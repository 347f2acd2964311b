package planning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskPriority is informational and has no effect on transitions.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// priorityOrder defines the ordering of priorities (higher order = higher priority)
var priorityOrder = map[TaskPriority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

var legacyPriorityLabels = map[string]TaskPriority{
	"נמוכה":   PriorityLow,
	"בינונית": PriorityMedium,
	"גבוהה":   PriorityHigh,
	"דחוף":    PriorityUrgent,
}

// AllTaskPriorities returns all valid task priorities.
func AllTaskPriorities() []TaskPriority {
	return []TaskPriority{
		PriorityLow,
		PriorityMedium,
		PriorityHigh,
		PriorityUrgent,
	}
}

// IsValid returns true if the priority is a valid task priority.
func (p TaskPriority) IsValid() bool {
	_, ok := priorityOrder[p]
	return ok
}

func (p TaskPriority) String() string {
	return string(p)
}

// Order returns the numeric order of the priority (higher = more important).
func (p TaskPriority) Order() int {
	return priorityOrder[p]
}

// Compare compares this priority to another.
// Returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p TaskPriority) Compare(other TaskPriority) int {
	switch a, b := p.Order(), other.Order(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsHigherThan returns true if this priority is higher than the other.
func (p TaskPriority) IsHigherThan(other TaskPriority) bool {
	return p.Compare(other) > 0
}

// ParseTaskPriority parses a string into a TaskPriority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	if p, ok := legacyPriorityLabels[strings.TrimSpace(s)]; ok {
		return p, nil
	}
	p := TaskPriority(normalizeName(s))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid task priority: %s", s)
	}
	return p, nil
}

// MarshalJSON implements json.Marshaler interface.
func (p TaskPriority) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	if str == "" {
		*p = PriorityMedium
		return nil
	}

	priority, err := ParseTaskPriority(str)
	if err != nil {
		return err
	}
	*p = priority
	return nil
}
