package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

func TestDispatcher_Publish(t *testing.T) {
	d := NewDispatcher()
	var specific, wildcard int
	d.Register("specific", func(ctx context.Context, e DomainEvent) error {
		specific++
		return nil
	}, EventTypeTaskCompleted)
	d.Register("all", func(ctx context.Context, e DomainEvent) error {
		wildcard++
		return nil
	}, Wildcard)

	task := planning.Task{ID: "t1", ProjectID: "p1", Status: planning.StatusDone}
	if err := d.Publish(context.Background(), NewTaskCompleted(task, "u1")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := d.Publish(context.Background(), NewTaskStatusChanged(task, planning.StatusInProgress, "u1")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if specific != 1 || wildcard != 2 {
		t.Errorf("specific = %d, wildcard = %d, want 1, 2", specific, wildcard)
	}
	if !d.HasHandlers("anything") {
		t.Error("HasHandlers() = false with a wildcard handler registered")
	}
}

func TestDispatcher_RunsAllHandlersOnError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	ran := 0
	d.Register("first", func(context.Context, DomainEvent) error { ran++; return boom }, Wildcard)
	d.Register("second", func(context.Context, DomainEvent) error { ran++; return nil }, Wildcard)

	err := d.Publish(context.Background(), NewDataChanged("tasks.yaml", "write"))
	if !errors.Is(err, boom) {
		t.Errorf("Publish() error = %v, want wrapping boom", err)
	}
	if ran != 2 {
		t.Errorf("ran %d handlers, want 2", ran)
	}
}

func TestRecorder(t *testing.T) {
	d := NewDispatcher()
	rec := &Recorder{}
	d.Register("recorder", rec.Handle, Wildcard)

	dep := planning.Task{ID: "t2", ProjectID: "p1"}
	_ = d.Publish(context.Background(), NewTaskActivated(dep, "t1"))
	_ = d.Publish(context.Background(), NewTaskSyncFailed("t2", []string{"status"}, errors.New("offline")))

	got := rec.Types()
	want := []string{EventTypeTaskActivated, EventTypeTaskSyncFailed}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Types() = %v, want %v", got, want)
	}
	if rec.Events()[0].AggregateID() != "t2" {
		t.Errorf("AggregateID() = %s, want t2", rec.Events()[0].AggregateID())
	}
}

type notifierFunc func(ctx context.Context, title, msg string) error

func (f notifierFunc) Notify(ctx context.Context, title, msg string) error { return f(ctx, title, msg) }

func TestSyncFailureHandler(t *testing.T) {
	var got string
	h := NewSyncFailureHandler(notifierFunc(func(_ context.Context, _, msg string) error {
		got = msg
		return nil
	}))

	_ = h.Handle(context.Background(), NewTaskCompleted(planning.Task{ID: "t1"}, ""))
	if got != "" {
		t.Fatalf("notified for a non-failure event: %q", got)
	}
	_ = h.Handle(context.Background(), NewTaskSyncFailed("t1", nil, errors.New("offline")))
	if !strings.Contains(got, "t1") || !strings.Contains(got, "offline") {
		t.Errorf("notification = %q, want task id and error", got)
	}
}

func TestLoggingHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewLoggingHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	_ = h.Handle(context.Background(), NewTaskSyncFailed("t9", []string{"progress"}, errors.New("timeout")))
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "aggregate_id=t9") {
		t.Errorf("log output = %q", out)
	}
}
