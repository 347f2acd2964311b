package planning_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"pgregory.net/rapid"
)

var base = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func drawTask(rt *rapid.T) planning.Task {
	dateOrJunk := func(label string) string {
		if rapid.IntRange(0, 9).Draw(rt, label+"-junk") == 0 {
			return rapid.SampledFrom([]string{"", "n/a", "2024-13-40"}).Draw(rt, label+"-bad")
		}
		return calendar.Format(base.AddDate(0, 0, rapid.IntRange(0, 900).Draw(rt, label)))
	}
	task := planning.Task{
		ID:               "t",
		Status:           rapid.SampledFrom(planning.AllTaskStatuses()).Draw(rt, "status"),
		Progress:         rapid.IntRange(0, 100).Draw(rt, "progress"),
		PlannedStartDate: dateOrJunk("start"),
		PlannedEndDate:   dateOrJunk("end"),
	}
	if rapid.Bool().Draw(rt, "started") {
		task.ActualStartDate = dateOrJunk("actualStart")
	}
	if rapid.Bool().Draw(rt, "ended") {
		task.ActualEndDate = dateOrJunk("actualEnd")
	}
	return task
}

func drawToday(rt *rapid.T) time.Time {
	return base.AddDate(0, 0, rapid.IntRange(0, 900).Draw(rt, "today"))
}

func TestProperty_TerminalTasksAreNeverLate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := drawTask(rt)
		task.Status = rapid.SampledFrom([]planning.TaskStatus{planning.StatusDone, planning.StatusCancelled}).Draw(rt, "terminal")
		if planning.IsLate(task, drawToday(rt)) {
			rt.Fatalf("terminal task %+v reported late", task)
		}
	})
}

func TestProperty_DoneAlwaysYieldsFullProgressAndEndDate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := drawTask(rt)
		task.ActualEndDate = ""
		req := planning.StatusUpdate(planning.StatusDone).WithProgress(rapid.IntRange(0, 100).Draw(rt, "requested"))
		final := planning.ApplyStatusChange(task, req, drawToday(rt)).Apply(task)
		if final.Progress != 100 {
			rt.Fatalf("progress = %d, want 100", final.Progress)
		}
		if final.ActualEndDate == "" {
			rt.Fatalf("actualEndDate empty after completion")
		}
	})
}

func TestProperty_StartStampIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := drawTask(rt)
		task.ActualStartDate = ""
		today := drawToday(rt)

		once := planning.ApplyStatusChange(task, planning.StatusUpdate(planning.StatusInProgress), today).Apply(task)
		if once.ActualStartDate != calendar.Format(today) {
			rt.Fatalf("actualStartDate = %q, want %q", once.ActualStartDate, calendar.Format(today))
		}

		later := today.AddDate(0, 0, rapid.IntRange(1, 30).Draw(rt, "later"))
		twice := planning.ApplyStatusChange(once, planning.StatusUpdate(planning.StatusInProgress), later).Apply(once)
		if twice.ActualStartDate != once.ActualStartDate {
			rt.Fatalf("actualStartDate changed from %q to %q", once.ActualStartDate, twice.ActualStartDate)
		}
	})
}

func TestProperty_PropagationOnlyTouchesNotStartedDependents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		tasks := []planning.Task{{ID: "root", ProjectID: "p", Status: planning.StatusDone}}
		for i := 0; i < n; i++ {
			tasks = append(tasks, planning.Task{
				ID:              string(rune('a' + i)),
				ProjectID:       "p",
				Status:          rapid.SampledFrom(planning.AllTaskStatuses()).Draw(rt, "status"),
				DependsOnTaskID: rapid.SampledFrom([]string{"root", "", "other"}).Draw(rt, "dep"),
			})
		}

		byID := map[string]planning.Task{}
		want := 0
		for _, task := range tasks {
			byID[task.ID] = task
			if task.DependsOnTaskID == "root" && task.Status == planning.StatusNotStarted {
				want++
			}
		}

		changes := planning.PropagateCompletion(tasks, "root")
		if len(changes) != want {
			rt.Fatalf("got %d changes, want %d", len(changes), want)
		}
		for _, c := range changes {
			if byID[c.TaskID].Status != planning.StatusNotStarted {
				rt.Fatalf("propagation touched %s in status %s", c.TaskID, byID[c.TaskID].Status)
			}
		}
	})
}
