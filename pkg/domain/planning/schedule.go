package planning

import "github.com/felixgeelhaar/nihulit/pkg/domain/calendar"

// DerivePlannedEnd returns the planned end of a task spanning workDays work
// days from start.
func DerivePlannedEnd(start string, workDays int) string {
	return calendar.AddWorkDays(start, workDays)
}

// FillSchedule completes the planned dates of a new task. A missing end is
// derived from the start and WorkDays; WorkDays is derived from the dates
// when it is unset.
func FillSchedule(t Task) Task {
	if t.PlannedStartDate == "" {
		return t
	}
	if t.PlannedEndDate == "" && t.WorkDays > 0 {
		t.PlannedEndDate = DerivePlannedEnd(t.PlannedStartDate, t.WorkDays)
	}
	if t.WorkDays == 0 && t.PlannedEndDate != "" {
		t.WorkDays = calendar.CountWorkDays(t.PlannedStartDate, t.PlannedEndDate)
	}
	return t
}

// ValidateSchedule checks that both planned dates are set and parse. Run it
// after FillSchedule so a derivable end date is not reported missing.
func (t Task) ValidateSchedule() error {
	for _, f := range []struct{ name, value string }{
		{"plannedStartDate", t.PlannedStartDate},
		{"plannedEndDate", t.PlannedEndDate},
	} {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "required"}
		}
		if _, ok := calendar.ParseDate(f.value); !ok {
			return &ValidationError{Field: f.name, Reason: "not a date: " + f.value}
		}
	}
	return nil
}

// Fresh returns t reset to the lifecycle start: NotStarted, no progress and
// no actual dates.
func Fresh(t Task) Task {
	t.Status = StatusNotStarted
	t.Progress = 0
	t.ActualStartDate = ""
	t.ActualEndDate = ""
	return t
}
