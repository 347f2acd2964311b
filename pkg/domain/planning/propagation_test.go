package planning_test

import (
	"sort"
	"testing"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

func TestPropagateCompletion(t *testing.T) {
	a := planning.Task{ID: "A", ProjectID: "p1", Status: planning.StatusDone}

	t.Run("activates a single not-started dependent", func(t *testing.T) {
		b := planning.Task{ID: "B", ProjectID: "p1", Status: planning.StatusNotStarted, DependsOnTaskID: "A"}
		got := planning.PropagateCompletion([]planning.Task{a, b}, "A")
		if len(got) != 1 {
			t.Fatalf("len(changes) = %d, want 1", len(got))
		}
		if got[0].TaskID != "B" || got[0].Update.Status == nil || *got[0].Update.Status != planning.StatusInProgress {
			t.Errorf("change = %+v, want B -> in_progress", got[0])
		}
		if fields := got[0].Update.Fields(); len(fields) != 1 {
			t.Errorf("propagated update sets %v, want only status", fields)
		}
	})

	for _, status := range []planning.TaskStatus{planning.StatusInProgress, planning.StatusBlocked, planning.StatusDone, planning.StatusCancelled} {
		t.Run("leaves "+string(status)+" dependent alone", func(t *testing.T) {
			b := planning.Task{ID: "B", ProjectID: "p1", Status: status, DependsOnTaskID: "A"}
			if got := planning.PropagateCompletion([]planning.Task{a, b}, "A"); len(got) != 0 {
				t.Errorf("changes = %+v, want none", got)
			}
		})
	}

	t.Run("activates every qualifying dependent", func(t *testing.T) {
		tasks := []planning.Task{
			a,
			{ID: "B", ProjectID: "p1", Status: planning.StatusNotStarted, DependsOnTaskID: "A"},
			{ID: "C", ProjectID: "p1", Status: planning.StatusNotStarted, DependsOnTaskID: "A"},
			{ID: "D", ProjectID: "p1", Status: planning.StatusNotStarted, DependsOnTaskID: "B"},
			{ID: "E", ProjectID: "p1", Status: planning.StatusNotStarted},
		}
		got := planning.PropagateCompletion(tasks, "A")
		ids := make([]string, 0, len(got))
		for _, c := range got {
			ids = append(ids, c.TaskID)
		}
		sort.Strings(ids)
		if len(ids) != 2 || ids[0] != "B" || ids[1] != "C" {
			t.Errorf("activated %v, want [B C] (one level only)", ids)
		}
	})

	t.Run("ignores dependents in other projects", func(t *testing.T) {
		b := planning.Task{ID: "B", ProjectID: "p2", Status: planning.StatusNotStarted, DependsOnTaskID: "A"}
		if got := planning.PropagateCompletion([]planning.Task{a, b}, "A"); len(got) != 0 {
			t.Errorf("changes = %+v, want none", got)
		}
	})

	t.Run("empty id", func(t *testing.T) {
		if got := planning.PropagateCompletion([]planning.Task{a}, ""); got != nil {
			t.Errorf("changes = %+v, want nil", got)
		}
	})
}

func TestDependents(t *testing.T) {
	tasks := []planning.Task{
		{ID: "A"},
		{ID: "B", DependsOnTaskID: "A"},
		{ID: "C", DependsOnTaskID: "B"},
	}
	got := planning.Dependents(tasks, "A")
	if len(got) != 1 || got[0].ID != "B" {
		t.Errorf("Dependents(A) = %+v, want [B]", got)
	}
}
