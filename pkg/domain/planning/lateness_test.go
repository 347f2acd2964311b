package planning_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

func TestClassify(t *testing.T) {
	today := calendar.Fixed("2024-06-10").Today()

	tests := []struct {
		name         string
		task         planning.Task
		lateToStart  bool
		lateToFinish bool
	}{
		{
			name:        "not started, start passed",
			task:        planning.Task{Status: planning.StatusNotStarted, PlannedStartDate: "2024-06-09", PlannedEndDate: "2024-06-20"},
			lateToStart: true,
		},
		{
			name:        "not started, start is today",
			task:        planning.Task{Status: planning.StatusNotStarted, PlannedStartDate: "2024-06-10", PlannedEndDate: "2024-06-20"},
			lateToStart: true,
		},
		{
			name: "not started, start tomorrow",
			task: planning.Task{Status: planning.StatusNotStarted, PlannedStartDate: "2024-06-11", PlannedEndDate: "2024-06-20"},
		},
		{
			name:         "in progress, end is today",
			task:         planning.Task{Status: planning.StatusInProgress, PlannedStartDate: "2024-06-01", PlannedEndDate: "2024-06-10"},
			lateToFinish: true,
		},
		{
			name:         "blocked, end passed",
			task:         planning.Task{Status: planning.StatusBlocked, PlannedStartDate: "2024-06-01", PlannedEndDate: "2024-06-05"},
			lateToFinish: true,
		},
		{
			name:         "start equals end equals today",
			task:         planning.Task{Status: planning.StatusNotStarted, PlannedStartDate: "2024-06-10", PlannedEndDate: "2024-06-10"},
			lateToStart:  true,
			lateToFinish: true,
		},
		{
			name: "done is never late",
			task: planning.Task{Status: planning.StatusDone, PlannedStartDate: "2024-01-01", PlannedEndDate: "2024-01-02"},
		},
		{
			name: "cancelled is never late",
			task: planning.Task{Status: planning.StatusCancelled, PlannedStartDate: "2024-01-01", PlannedEndDate: "2024-01-02"},
		},
		{
			name: "unparseable dates fail safe",
			task: planning.Task{Status: planning.StatusNotStarted, PlannedStartDate: "someday", PlannedEndDate: ""},
		},
		{
			name:         "timestamp end date",
			task:         planning.Task{Status: planning.StatusInProgress, PlannedStartDate: "bad", PlannedEndDate: "2024-06-10T18:00:00Z"},
			lateToFinish: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := planning.Classify(tt.task, today)
			if got.LateToStart != tt.lateToStart {
				t.Errorf("LateToStart = %v, want %v", got.LateToStart, tt.lateToStart)
			}
			if got.LateToFinish != tt.lateToFinish {
				t.Errorf("LateToFinish = %v, want %v", got.LateToFinish, tt.lateToFinish)
			}
			if want := tt.lateToStart || tt.lateToFinish; planning.IsLate(tt.task, today) != want {
				t.Errorf("IsLate() = %v, want %v", !want, want)
			}
			if planning.IsOverdue(tt.task, today) != tt.lateToFinish {
				t.Errorf("IsOverdue() should equal IsLateToFinish")
			}
		})
	}
}

func TestClassify_IgnoresTimeOfDayInToday(t *testing.T) {
	evening := calendar.Fixed("2024-06-10").Today().Add(23 * time.Hour)
	task := planning.Task{Status: planning.StatusInProgress, PlannedEndDate: "2024-06-10"}
	if !planning.IsLateToFinish(task, evening) {
		t.Error("a task due today should be late to finish regardless of the hour")
	}
}
