package events

import (
	"context"
	"log/slog"
	"sync"
)

// LoggingHandler writes every event to a structured logger.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a LoggingHandler. A nil logger uses slog.Default.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingHandler{logger: logger}
}

// Handle logs event at Warn for sync failures and Debug otherwise.
func (h *LoggingHandler) Handle(ctx context.Context, event DomainEvent) error {
	attrs := []any{
		"event_type", event.EventType(),
		"aggregate_id", event.AggregateID(),
	}
	switch e := event.(type) {
	case *TaskSyncFailed:
		h.logger.WarnContext(ctx, "task update not persisted", append(attrs, "fields", e.Fields, "error", e.Error)...)
	case *TaskActivated:
		h.logger.InfoContext(ctx, "dependent task activated", append(attrs, "triggered_by", e.TriggeredBy)...)
	default:
		h.logger.DebugContext(ctx, "domain event", attrs...)
	}
	return nil
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// SyncFailureHandler tells the user when a change was kept locally but not
// saved.
type SyncFailureHandler struct {
	notifier Notifier
}

func NewSyncFailureHandler(n Notifier) *SyncFailureHandler {
	return &SyncFailureHandler{notifier: n}
}

func (h *SyncFailureHandler) Handle(ctx context.Context, event DomainEvent) error {
	e, ok := event.(*TaskSyncFailed)
	if !ok || h.notifier == nil {
		return nil
	}
	return h.notifier.Notify(ctx, "not saved", "task "+e.TaskID+" changed locally but was not saved: "+e.Error)
}

// Recorder keeps every event it receives. The TUI and tests read from it.
type Recorder struct {
	mu     sync.Mutex
	events []DomainEvent
}

func (r *Recorder) Handle(_ context.Context, event DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events in arrival order.
func (r *Recorder) Events() []DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]DomainEvent(nil), r.events...)
}

// Types returns the event types in arrival order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}
