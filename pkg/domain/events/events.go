// Package events defines the domain events raised by task changes and the
// dispatcher that fans them out to handlers.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// DomainEvent is the interface every event satisfies.
type DomainEvent interface {
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent carries the fields common to all events.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Aggregate string    `json:"aggregateId"`
	Kind      string    `json:"aggregateType"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.Kind }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func newBase(typ, kind, id, actor string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      typ,
		Aggregate: id,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Actor:     actor,
	}
}

const (
	EventTypeTaskStatusChanged = "task.status_changed"
	EventTypeTaskCompleted     = "task.completed"
	EventTypeTaskActivated     = "task.activated"
	EventTypeTaskSyncFailed    = "task.sync_failed"
	EventTypeDataChanged       = "data.changed"

	AggregateTypeTask = "task"
	AggregateTypeData = "data"
)

// TaskStatusChanged is emitted for any persisted or local status change.
type TaskStatusChanged struct {
	BaseEvent
	TaskID    string              `json:"taskId"`
	ProjectID string              `json:"projectId"`
	From      planning.TaskStatus `json:"from"`
	To        planning.TaskStatus `json:"to"`
}

// NewTaskStatusChanged builds a status change event for task.
func NewTaskStatusChanged(task planning.Task, from planning.TaskStatus, actor string) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent: newBase(EventTypeTaskStatusChanged, AggregateTypeTask, task.ID, actor),
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		From:      from,
		To:        task.Status,
	}
}

// TaskCompleted is emitted when a task reaches Done.
type TaskCompleted struct {
	BaseEvent
	TaskID        string `json:"taskId"`
	ProjectID     string `json:"projectId"`
	ActualEndDate string `json:"actualEndDate,omitempty"`
}

// NewTaskCompleted builds a completion event for task.
func NewTaskCompleted(task planning.Task, actor string) *TaskCompleted {
	return &TaskCompleted{
		BaseEvent:     newBase(EventTypeTaskCompleted, AggregateTypeTask, task.ID, actor),
		TaskID:        task.ID,
		ProjectID:     task.ProjectID,
		ActualEndDate: task.ActualEndDate,
	}
}

// TaskActivated is emitted when a dependent task is started because its
// prerequisite completed.
type TaskActivated struct {
	BaseEvent
	TaskID      string `json:"taskId"`
	ProjectID   string `json:"projectId"`
	TriggeredBy string `json:"triggeredBy"`
}

// NewTaskActivated builds an activation event for dependent.
func NewTaskActivated(dependent planning.Task, triggeredBy string) *TaskActivated {
	return &TaskActivated{
		BaseEvent:   newBase(EventTypeTaskActivated, AggregateTypeTask, dependent.ID, "system"),
		TaskID:      dependent.ID,
		ProjectID:   dependent.ProjectID,
		TriggeredBy: triggeredBy,
	}
}

// TaskSyncFailed is emitted when a local update could not be persisted.
// The local state keeps the update.
type TaskSyncFailed struct {
	BaseEvent
	TaskID string   `json:"taskId"`
	Fields []string `json:"fields"`
	Error  string   `json:"error"`
}

// NewTaskSyncFailed builds a sync failure event.
func NewTaskSyncFailed(taskID string, fields []string, err error) *TaskSyncFailed {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &TaskSyncFailed{
		BaseEvent: newBase(EventTypeTaskSyncFailed, AggregateTypeTask, taskID, "system"),
		TaskID:    taskID,
		Fields:    fields,
		Error:     msg,
	}
}

// DataChanged is emitted when the backing data files change on disk.
type DataChanged struct {
	BaseEvent
	Path string `json:"path"`
	Op   string `json:"op"`
}

// NewDataChanged builds a data change event.
func NewDataChanged(path, op string) *DataChanged {
	return &DataChanged{
		BaseEvent: newBase(EventTypeDataChanged, AggregateTypeData, path, "system"),
		Path:      path,
		Op:        op,
	}
}
