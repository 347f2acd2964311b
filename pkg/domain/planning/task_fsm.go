package planning

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
// These must remain as untyped string constants for statekit.StateID compatibility.
const (
	StateNotStarted = "not_started"
	StateInProgress = "in_progress"
	StateBlocked    = "blocked"
	StateDone       = "done"
	StateCancelled  = "cancelled"
)

// init validates at startup that FSM state constants match TaskStatus values.
func init() {
	stateMap := map[string]TaskStatus{
		StateNotStarted: StatusNotStarted,
		StateInProgress: StatusInProgress,
		StateBlocked:    StatusBlocked,
		StateDone:       StatusDone,
		StateCancelled:  StatusCancelled,
	}

	for fsmState, taskStatus := range stateMap {
		if fsmState != string(taskStatus) {
			panic(fmt.Sprintf("FSM state %q does not match TaskStatus %q - constants are out of sync", fsmState, taskStatus))
		}
	}
}

// TaskContext carries state data.
type TaskContext struct {
	TaskID string
	Guard  func(taskID string, event string) bool
}

// TaskStateMachine drives one task through its status lifecycle.
type TaskStateMachine struct {
	taskID      string
	interpreter *statekit.Interpreter[TaskContext]
}

// NewTaskStateMachine builds a machine positioned at initial. The guard, if
// given, can veto any event.
func NewTaskStateMachine(initial TaskStatus, taskID string, guard func(string, string) bool) (*TaskStateMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("invalid initial status: %q", initial)
	}
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[TaskContext]("task-machine").
		WithInitial(statekit.StateID(initial)).
		WithContext(TaskContext{
			TaskID: taskID,
			Guard:  guard,
		}).
		WithGuard("policyGuard", func(ctx TaskContext, e statekit.Event) bool {
			return ctx.Guard(ctx.TaskID, string(e.Type))
		})

	builder.State(StateNotStarted).
		On(EventStart).Target(StateInProgress).Guard("policyGuard").
		On(EventComplete).Target(StateDone).Guard("policyGuard").
		On(EventBlock).Target(StateBlocked).Guard("policyGuard").
		On(EventCancel).Target(StateCancelled).Guard("policyGuard").
		Done()

	builder.State(StateInProgress).
		On(EventComplete).Target(StateDone).Guard("policyGuard").
		On(EventBlock).Target(StateBlocked).Guard("policyGuard").
		On(EventCancel).Target(StateCancelled).Guard("policyGuard").
		Done()

	builder.State(StateBlocked).
		On(EventUnblock).Target(StateInProgress).Guard("policyGuard").
		On(EventComplete).Target(StateDone).Guard("policyGuard").
		On(EventCancel).Target(StateCancelled).Guard("policyGuard").
		Done()

	builder.State(StateDone).
		On(EventReopen).Target(StateInProgress).Guard("policyGuard").
		Done()

	builder.State(StateCancelled).
		On(EventRestore).Target(StateNotStarted).Guard("policyGuard").
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &TaskStateMachine{taskID: taskID, interpreter: interpreter}, nil
}

// Transition attempts to move the task with event.
func (sm *TaskStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if sm.Current() != before {
		return nil
	}
	// statekit leaves the state unchanged both for unknown events and for
	// guard rejections.
	return fmt.Errorf("the action '%s' is not allowed while the task is in the '%s' state", event, before)
}

// TransitionTo moves the task to target using whichever event leads there.
// Requesting the current status is a no-op.
func (sm *TaskStateMachine) TransitionTo(target TaskStatus) error {
	from := sm.Current()
	if from == target {
		return nil
	}
	event, ok := from.EventFor(target)
	if !ok {
		return &TransitionError{TaskID: sm.taskID, FromStatus: from, ToStatus: target}
	}
	if err := sm.Transition(event); err != nil {
		return fmt.Errorf("%w: %v", &TransitionError{TaskID: sm.taskID, FromStatus: from, ToStatus: target}, err)
	}
	return nil
}

// Current returns the machine's status.
func (sm *TaskStateMachine) Current() TaskStatus {
	return TaskStatus(sm.interpreter.State().Value)
}

// CanTransition checks if the given event is valid for the current state.
func (sm *TaskStateMachine) CanTransition(event string) bool {
	return sm.Current().CanTransitionWith(event)
}

// ValidEvents returns the valid events for the current state.
func (sm *TaskStateMachine) ValidEvents() []string {
	return sm.Current().ValidEvents()
}

// CheckTransition validates moving task from its current status to target
// without keeping the machine around.
func CheckTransition(task Task, target TaskStatus) error {
	from := task.Status
	if from == "" {
		from = StatusNotStarted
	}
	sm, err := NewTaskStateMachine(from, task.ID, nil)
	if err != nil {
		return err
	}
	return sm.TransitionTo(target)
}
