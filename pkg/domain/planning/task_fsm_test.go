package planning_test

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

func TestTaskStateMachine(t *testing.T) {
	fsm, err := planning.NewTaskStateMachine(planning.StatusNotStarted, "t1", nil)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if fsm.Current() != planning.StatusNotStarted {
		t.Errorf("Expected NotStarted, got %s", fsm.Current())
	}

	if err := fsm.Transition(planning.EventStart); err != nil {
		t.Errorf("Start failed: %v", err)
	}
	if fsm.Current() != planning.StatusInProgress {
		t.Errorf("Expected InProgress, got %s", fsm.Current())
	}

	if err := fsm.Transition("invalid"); err == nil {
		t.Errorf("Expected error on invalid transition")
	}

	if err := fsm.Transition(planning.EventComplete); err != nil {
		t.Errorf("Complete failed: %v", err)
	}
	if err := fsm.Transition(planning.EventReopen); err != nil {
		t.Errorf("Reopen failed: %v", err)
	}
	if fsm.Current() != planning.StatusInProgress {
		t.Errorf("Expected InProgress after reopen, got %s", fsm.Current())
	}

	blockedGuard := func(tid string, ev string) bool { return false }
	fsm2, _ := planning.NewTaskStateMachine(planning.StatusNotStarted, "t2", blockedGuard)
	if err := fsm2.Transition(planning.EventStart); err == nil {
		t.Errorf("Expected error on guarded transition")
	}
	if fsm2.Current() != planning.StatusNotStarted {
		t.Errorf("State changed despite failing guard")
	}
}

func TestTaskStateMachine_InvalidInitial(t *testing.T) {
	if _, err := planning.NewTaskStateMachine("verified", "t1", nil); err == nil {
		t.Error("expected error for unknown initial status")
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    planning.TaskStatus
		to      planning.TaskStatus
		wantErr bool
	}{
		{"start", planning.StatusNotStarted, planning.StatusInProgress, false},
		{"complete", planning.StatusInProgress, planning.StatusDone, false},
		{"same status is a no-op", planning.StatusDone, planning.StatusDone, false},
		{"empty status counts as not started", "", planning.StatusInProgress, false},
		{"complete an untouched task", planning.StatusNotStarted, planning.StatusDone, false},
		{"complete a blocked task", planning.StatusBlocked, planning.StatusDone, false},
		{"complete a cancelled task", planning.StatusCancelled, planning.StatusDone, true},
		{"block a done task", planning.StatusDone, planning.StatusBlocked, true},
		{"restore cancelled", planning.StatusCancelled, planning.StatusNotStarted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := planning.CheckTransition(planning.Task{ID: "t", Status: tt.from}, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, planning.ErrInvalidTransition) {
				t.Errorf("CheckTransition() error = %v, want ErrInvalidTransition", err)
			}
		})
	}
}
