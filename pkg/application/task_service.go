package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/dependency"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// SyncResult reports one optimistic update. Value is the task as it now
// stands locally; Persisted is false when the store rejected the write.
type SyncResult struct {
	Persisted bool          `json:"persisted"`
	Value     planning.Task `json:"value"`
	Err       error         `json:"-"`
}

// UpdateOutcome is the result of an update and the activations it caused.
type UpdateOutcome struct {
	Result     SyncResult   `json:"result"`
	Propagated []SyncResult `json:"propagated,omitempty"`
}

// AllPersisted reports whether every write in the outcome reached the store.
func (o UpdateOutcome) AllPersisted() bool {
	if !o.Result.Persisted {
		return false
	}
	for _, r := range o.Propagated {
		if !r.Persisted {
			return false
		}
	}
	return true
}

// TaskView is a task with its lateness flags for display.
type TaskView struct {
	Task           planning.Task `json:"task"`
	IsLate         bool          `json:"isLate"`
	IsLateToStart  bool          `json:"isLateToStart"`
	IsLateToFinish bool          `json:"isLateToFinish"`
}

// TaskService owns the local task list and applies changes to it
// optimistically: the local list always reflects the user's intent, and a
// failed write is reported rather than rolled back.
type TaskService struct {
	mu      sync.Mutex
	store   planning.TaskStore
	clock   calendar.Clock
	events  events.Publisher
	audit   domain.AuditLogger
	logger  *slog.Logger
	tasks   []planning.Task
	pending map[string]struct{}
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*TaskService)

func WithEvents(p events.Publisher) TaskServiceOption {
	return func(s *TaskService) { s.events = p }
}

func WithAudit(a domain.AuditLogger) TaskServiceOption {
	return func(s *TaskService) { s.audit = a }
}

func WithLogger(l *slog.Logger) TaskServiceOption {
	return func(s *TaskService) { s.logger = l }
}

func NewTaskService(store planning.TaskStore, clock calendar.Clock, opts ...TaskServiceOption) *TaskService {
	s := &TaskService{
		store:   store,
		clock:   clock,
		events:  events.Discard,
		audit:   domain.NopAuditLogger,
		logger:  slog.Default(),
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the local list with the store's contents. Tasks with
// unsynced local changes keep their local state.
func (s *TaskService) Load(ctx context.Context) error {
	remote, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	local := make(map[string]planning.Task, len(s.pending))
	for id := range s.pending {
		if i := s.indexOf(id); i >= 0 {
			local[id] = s.tasks[i]
		}
	}
	for i, t := range remote {
		if l, ok := local[t.ID]; ok {
			remote[i] = l
		}
	}
	s.tasks = remote
	return nil
}

// Tasks returns a copy of the local task list.
func (s *TaskService) Tasks() []planning.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]planning.Task(nil), s.tasks...)
}

// Task returns the local copy of one task.
func (s *TaskService) Task(id string) (planning.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return planning.Task{}, fmt.Errorf("%w: %s", planning.ErrTaskNotFound, id)
	}
	return s.tasks[i], nil
}

// Create stores a new task and adds it to the local list under the id the
// store assigned. Unlike updates, creation is not optimistic. Every new task
// starts NotStarted at 0% with no actual dates, whatever the caller sent.
func (s *TaskService) Create(ctx context.Context, task planning.Task) (planning.Task, error) {
	task = planning.FillSchedule(planning.WithDefaults(planning.Fresh(task)))
	if err := task.Validate(); err != nil {
		return planning.Task{}, err
	}
	if u, ok := access.UserFrom(ctx); ok {
		if !access.CanView(u, task.ProjectID) || u.Role == access.RoleViewer {
			return planning.Task{}, &access.PermissionError{UserID: u.ID, Action: "create", Target: "task in project " + task.ProjectID}
		}
	}
	if err := task.ValidateSchedule(); err != nil {
		return planning.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if task.DependsOnTaskID != "" {
		if i := s.indexOf(task.DependsOnTaskID); i < 0 {
			return planning.Task{}, fmt.Errorf("%w: %s", dependency.ErrDependencyNotFound, task.DependsOnTaskID)
		} else if s.tasks[i].ProjectID != task.ProjectID {
			return planning.Task{}, fmt.Errorf("%w: %s", dependency.ErrCrossProject, task.DependsOnTaskID)
		}
	}

	task.ID = ""
	id, err := s.store.Create(ctx, task)
	if err != nil {
		return planning.Task{}, fmt.Errorf("create task: %w", err)
	}
	task.ID = id
	s.tasks = append(s.tasks, task)
	s.record(ctx, domain.ActionTaskCreated, access.ActorFrom(ctx), map[string]any{
		"task_id":    id,
		"project_id": task.ProjectID,
	})
	return task, nil
}

// Update validates req against the task's current state, derives the
// automatic date fields, applies the result locally and writes it to the
// store. When the task reaches Done its NotStarted dependents in the same
// project are started in the same call.
//
// The returned error covers validation and permission failures only. Store
// failures are reported through the outcome.
func (s *TaskService) Update(ctx context.Context, id string, req planning.TaskUpdate) (UpdateOutcome, error) {
	if err := req.Validate(); err != nil {
		return UpdateOutcome{}, err
	}
	if err := req.CheckEditable(); err != nil {
		return UpdateOutcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return UpdateOutcome{}, fmt.Errorf("%w: %s", planning.ErrTaskNotFound, id)
	}
	current := s.tasks[i]

	if u, ok := access.UserFrom(ctx); ok {
		if err := access.RequireEdit(u, current); err != nil {
			return UpdateOutcome{}, err
		}
	}
	if req.Status != nil && *req.Status != current.Status {
		if err := planning.CheckTransition(current, *req.Status); err != nil {
			return UpdateOutcome{}, err
		}
	}
	if req.DependsOnTaskID != nil {
		if err := dependency.ValidateDependency(s.tasks, id, *req.DependsOnTaskID); err != nil {
			return UpdateOutcome{}, err
		}
	}

	today := s.clock.Today()
	actor := access.ActorFrom(ctx)
	final := planning.ApplyStatusChange(current, req, today)

	var out UpdateOutcome
	out.Result = s.commit(ctx, id, final, actor)

	if out.Result.Value.Status == planning.StatusDone && current.Status != planning.StatusDone {
		out.Propagated = s.propagate(ctx, id, today)
	}
	return out, nil
}

// ChangeStatus is Update with only a status.
func (s *TaskService) ChangeStatus(ctx context.Context, id string, status planning.TaskStatus) (UpdateOutcome, error) {
	return s.Update(ctx, id, planning.StatusUpdate(status))
}

// SetProgress is Update with only a progress value.
func (s *TaskService) SetProgress(ctx context.Context, id string, progress int) (UpdateOutcome, error) {
	return s.Update(ctx, id, planning.TaskUpdate{}.WithProgress(progress))
}

// SetDependency links id to dependsOnID. An empty dependsOnID removes the
// link. Self links, cross-project links and cycles are rejected.
func (s *TaskService) SetDependency(ctx context.Context, id, dependsOnID string) (UpdateOutcome, error) {
	return s.Update(ctx, id, planning.TaskUpdate{}.WithDependsOn(dependsOnID))
}

// Delete removes a task from the store and then from the local list. Tasks
// that depended on it lose the link; those writes are optimistic like any
// other update.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", planning.ErrTaskNotFound, id)
	}
	if u, ok := access.UserFrom(ctx); ok {
		if err := access.RequireDelete(u, access.TaskRecord(s.tasks[i])); err != nil {
			return err
		}
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	delete(s.pending, id)
	s.record(ctx, domain.ActionTaskDeleted, access.ActorFrom(ctx), map[string]any{"task_id": id})

	unlink := planning.TaskUpdate{}.WithDependsOn("")
	for _, dep := range dependency.FromTasks(s.tasks).Dependents(id) {
		if res := s.commit(ctx, dep, unlink, access.SystemActor); !res.Persisted {
			s.logger.Warn("dependency unlink not persisted", "task_id", dep, "deleted_task", id, "error", res.Err)
		}
	}
	return nil
}

// Views returns every local task with its lateness flags as of today.
func (s *TaskService) Views(today time.Time) []TaskView {
	return BuildViews(s.Tasks(), today)
}

// BuildViews classifies tasks as of today.
func BuildViews(tasks []planning.Task, today time.Time) []TaskView {
	out := make([]TaskView, len(tasks))
	for i, t := range tasks {
		l := planning.Classify(t, today)
		out[i] = TaskView{
			Task:           t,
			IsLate:         l.Late(),
			IsLateToStart:  l.LateToStart,
			IsLateToFinish: l.LateToFinish,
		}
	}
	return out
}

// PendingSync lists the ids of tasks with local changes the store has not
// accepted, sorted.
func (s *TaskService) PendingSync() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Retry resends the full local state of every pending task. It runs only
// when asked; the service never retries on its own.
func (s *TaskService) Retry(ctx context.Context) []SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]SyncResult, 0, len(ids))
	for _, id := range ids {
		i := s.indexOf(id)
		if i < 0 {
			delete(s.pending, id)
			continue
		}
		task := s.tasks[i]
		err := s.store.Update(ctx, id, planning.UpdateFrom(task))
		if err == nil {
			delete(s.pending, id)
			s.record(ctx, domain.ActionTaskRetried, access.ActorFrom(ctx), map[string]any{"task_id": id})
		} else {
			s.logger.Warn("retry not persisted", "task_id", id, "error", err)
		}
		results = append(results, SyncResult{Persisted: err == nil, Value: task, Err: err})
	}
	return results
}

// commit applies upd locally, then writes it. The caller holds s.mu.
func (s *TaskService) commit(ctx context.Context, id string, upd planning.TaskUpdate, actor string) SyncResult {
	i := s.indexOf(id)
	before := s.tasks[i]
	after := upd.Apply(before)
	s.tasks[i] = after

	fields := upd.Fields()
	err := s.store.Update(ctx, id, upd)
	if err != nil {
		s.pending[id] = struct{}{}
		s.logger.Warn("task update not persisted", "task_id", id, "fields", fields, "error", err)
		s.record(ctx, domain.ActionTaskNotPersisted, actor, map[string]any{
			"task_id": id,
			"fields":  fields,
			"error":   err.Error(),
		})
		s.publish(ctx, events.NewTaskSyncFailed(id, fields, err))
	} else {
		s.record(ctx, domain.ActionTaskUpdated, actor, map[string]any{
			"task_id": id,
			"fields":  fields,
		})
	}

	if after.Status != before.Status {
		s.publish(ctx, events.NewTaskStatusChanged(after, before.Status, actor))
		if after.Status == planning.StatusDone {
			s.publish(ctx, events.NewTaskCompleted(after, actor))
		}
	}
	return SyncResult{Persisted: err == nil, Value: after, Err: err}
}

// propagate starts the dependents of completedID. Each dependent is written
// independently; one failure does not stop the others. The caller holds s.mu.
func (s *TaskService) propagate(ctx context.Context, completedID string, today time.Time) []SyncResult {
	changes := planning.PropagateCompletion(s.tasks, completedID)
	results := make([]SyncResult, 0, len(changes))
	for _, ch := range changes {
		i := s.indexOf(ch.TaskID)
		if i < 0 {
			continue
		}
		upd := planning.ApplyStatusChange(s.tasks[i], ch.Update, today)
		res := s.commit(ctx, ch.TaskID, upd, access.SystemActor)
		if !res.Persisted {
			s.logger.Warn("propagated update not persisted", "task_id", ch.TaskID, "completed_task", completedID, "error", res.Err)
		}
		s.publish(ctx, events.NewTaskActivated(res.Value, completedID))
		s.record(ctx, domain.ActionTaskPropagated, access.SystemActor, map[string]any{
			"task_id":           ch.TaskID,
			"triggered_by":      completedID,
			"persisted":         res.Persisted,
			"actual_start_date": res.Value.ActualStartDate,
		})
		results = append(results, res)
	}
	return results
}

func (s *TaskService) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskService) publish(ctx context.Context, e events.DomainEvent) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("event publish failed", "event_type", e.EventType(), "error", err)
	}
}

func (s *TaskService) record(ctx context.Context, action, actor string, meta map[string]any) {
	if err := s.audit.Log(ctx, action, actor, meta); err != nil {
		s.logger.Warn("audit log failed", "action", action, "error", err)
	}
}
