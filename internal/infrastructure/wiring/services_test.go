package wiring

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/felixgeelhaar/nihulit/internal/infrastructure/config"
	"github.com/felixgeelhaar/nihulit/pkg/domain/calendar"
	"github.com/felixgeelhaar/nihulit/pkg/domain/events"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/storage"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (c *captureNotifier) Notify(_ context.Context, title, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, title+": "+message)
	return nil
}

func TestBuildAppServices_FileBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), ".nihulit")
	ctx := context.Background()

	svc, err := BuildAppServices(ctx, cfg, Options{Clock: calendar.Fixed("2024-03-05")})
	if err != nil {
		t.Fatalf("BuildAppServices() error = %v", err)
	}
	defer svc.Close()

	if _, ok := svc.Workspace.Backend.(*storage.FilesystemBackend); !ok {
		t.Fatalf("backend = %T, want *storage.FilesystemBackend", svc.Workspace.Backend)
	}
	if _, err := os.Stat(cfg.Storage.Dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}

	task, err := svc.Task.Create(ctx, planning.Task{ProjectID: "p1", Name: "Letters", PlannedStartDate: "2024-03-05"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A second build over the same directory sees the task.
	again, err := BuildAppServices(ctx, cfg, Options{Clock: calendar.Fixed("2024-03-05")})
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	if _, err := again.Task.Task(task.ID); err != nil {
		t.Errorf("reloaded Task(%s) error = %v", task.ID, err)
	}
}

func TestBuildAppServices_NotifiesSyncFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendMemory
	ctx := context.Background()
	backend := storage.NewMemoryBackend()

	notifier := &captureNotifier{}
	svc, err := BuildAppServices(ctx, cfg, Options{
		Backend:   &failingMerge{Backend: backend},
		Clock:     calendar.Fixed("2024-03-05"),
		Notifiers: []events.Notifier{notifier},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer svc.Close()

	task, err := svc.Task.Create(ctx, planning.Task{ProjectID: "p1", Name: "Gala", PlannedStartDate: "2024-03-05"})
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.Task.SetProgress(ctx, task.ID, 30)
	if err != nil {
		t.Fatal(err)
	}
	if out.Result.Persisted {
		t.Fatal("update should not persist through a failing backend")
	}
	if len(notifier.messages) != 1 {
		t.Errorf("notifications = %v, want 1", notifier.messages)
	}
}

func TestOpenWorkspace_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "mongo"
	if _, err := OpenWorkspace(context.Background(), cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("OpenWorkspace() error = %v, want ErrInvalidConfig", err)
	}
}

type failingMerge struct {
	storage.Backend
}

func (f *failingMerge) Merge(context.Context, string, string, storage.Document) error {
	return errors.New("disk full")
}
