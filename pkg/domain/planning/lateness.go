package planning

import (
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
)

// Lateness is the combined lateness indicator for one task. A task that is
// both late to start and late to finish is still one late task.
type Lateness struct {
	LateToStart  bool `json:"isLateToStart"`
	LateToFinish bool `json:"isLateToFinish"`
}

// Late reports whether either predicate holds.
func (l Lateness) Late() bool {
	return l.LateToStart || l.LateToFinish
}

// Classify evaluates every lateness predicate for t against today.
func Classify(t Task, today time.Time) Lateness {
	return Lateness{
		LateToStart:  IsLateToStart(t, today),
		LateToFinish: IsLateToFinish(t, today),
	}
}

// IsLateToStart holds for a NotStarted task whose planned start is today or
// earlier. An unparseable planned start is never late.
func IsLateToStart(t Task, today time.Time) bool {
	if t.Status != StatusNotStarted {
		return false
	}
	return onOrBefore(t.PlannedStartDate, today)
}

// IsLateToFinish holds for a non-terminal task whose planned end is today or
// earlier. An unparseable planned end is never late.
func IsLateToFinish(t Task, today time.Time) bool {
	if t.Status.IsTerminal() {
		return false
	}
	return onOrBefore(t.PlannedEndDate, today)
}

// IsOverdue is the dashboard/calendar notion of lateness.
func IsOverdue(t Task, today time.Time) bool {
	return IsLateToFinish(t, today)
}

// IsLate holds when the task is late to start or late to finish.
func IsLate(t Task, today time.Time) bool {
	return Classify(t, today).Late()
}

func onOrBefore(date string, today time.Time) bool {
	d, ok := calendar.ParseDate(date)
	if !ok {
		return false
	}
	return !d.After(calendar.Midnight(today))
}
