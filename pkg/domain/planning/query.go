package planning

import (
	"sort"
	"strings"
	"time"
)

// View is a named task list preset.
type View string

const (
	ViewAll        View = "all"
	ViewActive     View = "active"
	ViewOverdue    View = "overdue"
	ViewWithIssues View = "with_issues"
	ViewCompleted  View = "completed"
)

// ParseView parses a view name; empty means ViewAll.
func ParseView(s string) (View, bool) {
	v := View(normalizeName(s))
	switch v {
	case "":
		return ViewAll, true
	case ViewAll, ViewActive, ViewOverdue, ViewWithIssues, ViewCompleted:
		return v, true
	}
	return "", false
}

// SortKey selects the ordering of a task list.
type SortKey string

const (
	SortByPlannedEnd   SortKey = "planned_end"
	SortByPlannedStart SortKey = "planned_start"
	SortByProject      SortKey = "project"
)

// Query filters and orders a task list the way the task screens do.
type Query struct {
	View       View
	Search     string
	ProjectIDs []string
	Status     TaskStatus
	Priority   TaskPriority
	// EndFrom and EndTo bound the planned end date, inclusive.
	EndFrom    string
	EndTo      string
	SortBy     SortKey
	Descending bool
}

// Matches reports whether t passes every filter of q.
func (q Query) Matches(t Task, today time.Time) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Search)) {
		return false
	}
	if len(q.ProjectIDs) > 0 && !contains(q.ProjectIDs, t.ProjectID) {
		return false
	}
	if q.Status != "" && t.Status != q.Status {
		return false
	}
	if q.Priority != "" && t.Priority != q.Priority {
		return false
	}
	if q.EndFrom != "" && t.PlannedEndDate < q.EndFrom {
		return false
	}
	if q.EndTo != "" && t.PlannedEndDate > q.EndTo {
		return false
	}

	switch q.View {
	case ViewActive:
		return !t.Status.IsTerminal()
	case ViewOverdue:
		return IsLate(t, today)
	case ViewWithIssues:
		return t.HasIssue
	case ViewCompleted:
		return t.Status == StatusDone
	}
	return true
}

// Apply filters and sorts tasks. projectNames is only consulted when
// sorting by project.
func (q Query) Apply(tasks []Task, today time.Time, projectNames map[string]string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Matches(t, today) {
			out = append(out, t)
		}
	}

	key := func(t Task) string {
		switch q.SortBy {
		case SortByProject:
			return projectNames[t.ProjectID]
		case SortByPlannedStart:
			return t.PlannedStartDate
		default:
			return t.PlannedEndDate
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Descending {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
