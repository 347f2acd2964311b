// Package analytics reduces task and project collections into the progress
// and lateness figures shown on dashboards and reports. Every function is a
// pure reduction over its inputs and can be recomputed at any time.
package analytics

import (
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// Percent returns num/den as an integer percentage rounded half up, or 0
// when den is zero.
func Percent(num, den int) int {
	if den <= 0 || num <= 0 {
		return 0
	}
	return (num*200 + den) / (den * 2)
}

// RoundHalfUp rounds a non-negative value to the nearest integer.
func RoundHalfUp(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(v + 0.5)
}

// ProjectProgress is the mean progress of the project's tasks, or 0 when
// the project has none.
func ProjectProgress(tasks []planning.Task, projectID string) float64 {
	sum, n := 0, 0
	for _, t := range tasks {
		if t.ProjectID == projectID {
			sum += t.Progress
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// CompletionRate is the share of Done tasks, 0-100.
func CompletionRate(tasks []planning.Task) int {
	done := 0
	for _, t := range tasks {
		if t.Status == planning.StatusDone {
			done++
		}
	}
	return Percent(done, len(tasks))
}

// IsOnTime reports whether a Done task finished on or before its planned
// end. A task without a parseable actual end is not on time.
func IsOnTime(t planning.Task) bool {
	if t.Status != planning.StatusDone {
		return false
	}
	actual, ok := calendar.ParseDate(t.ActualEndDate)
	if !ok {
		return false
	}
	planned, ok := calendar.ParseDate(t.PlannedEndDate)
	if !ok {
		return false
	}
	return !actual.After(planned)
}

// OnTimeRate is the share of Done tasks finished on time, 0-100. Tasks that
// are not Done are ignored.
func OnTimeRate(tasks []planning.Task) int {
	done, onTime := 0, 0
	for _, t := range tasks {
		if t.Status != planning.StatusDone {
			continue
		}
		done++
		if IsOnTime(t) {
			onTime++
		}
	}
	return Percent(onTime, done)
}

// LateTaskCount counts late tasks. A task late both to start and to finish
// counts once.
func LateTaskCount(tasks []planning.Task, today time.Time) int {
	n := 0
	for _, t := range tasks {
		if planning.IsLate(t, today) {
			n++
		}
	}
	return n
}

// Workload is one user's share of the task set.
type Workload struct {
	UserID    string `json:"userId"`
	Name      string `json:"name,omitempty"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Overdue   int    `json:"overdue"`
}

// IsZero reports whether the user has no assigned work at all.
func (w Workload) IsZero() bool {
	return w.Active == 0 && w.Completed == 0 && w.Overdue == 0
}

// WorkloadByAssignee returns, in userIDs order, each user's count of
// assigned tasks that are not Done, that are Done, and that are overdue.
func WorkloadByAssignee(userIDs []string, tasks []planning.Task, today time.Time) []Workload {
	out := make([]Workload, 0, len(userIDs))
	for _, id := range userIDs {
		w := Workload{UserID: id}
		for _, t := range tasks {
			if !t.IsAssignedTo(id) {
				continue
			}
			if t.Status == planning.StatusDone {
				w.Completed++
			} else {
				w.Active++
			}
			if planning.IsOverdue(t, today) {
				w.Overdue++
			}
		}
		out = append(out, w)
	}
	return out
}
