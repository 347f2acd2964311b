package planning

import (
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

// ApplyStatusChange merges the fields derived from a status change into req
// and returns the update to persist. It does not validate the transition
// and does not persist anything.
//
// Moving to InProgress stamps actualStartDate if the task has none. Moving
// to Done stamps actualEndDate and forces progress to 100 if the task has
// never been completed before. actualEndDate is never cleared.
func ApplyStatusChange(task Task, req TaskUpdate, today time.Time) TaskUpdate {
	if req.Status == nil {
		return req
	}
	stamp := calendar.Format(today)

	switch *req.Status {
	case StatusInProgress:
		if task.ActualStartDate == "" {
			req.ActualStartDate = &stamp
		}
	case StatusDone:
		if task.ActualEndDate == "" {
			req.ActualEndDate = &stamp
			full := 100
			req.Progress = &full
		}
	}
	return req
}
