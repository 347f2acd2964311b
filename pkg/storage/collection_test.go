package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
)

func TestTaskStore_RoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewTaskStore(b)

			draft := planning.NewTask("p1", "Board meeting")
			draft.ID = "client-id"
			draft.Assignees = []string{"u1"}
			draft.PlannedEndDate = "2024-05-01"
			id, err := store.Create(ctx, draft)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if id == "client-id" || id == "" {
				t.Errorf("Create() id = %q, want a store-assigned id", id)
			}

			upd := planning.StatusUpdate(planning.StatusInProgress).WithProgress(30)
			if err := store.Update(ctx, id, upd); err != nil {
				t.Fatalf("Update() error = %v", err)
			}

			tasks, err := store.List(ctx)
			if err != nil || len(tasks) != 1 {
				t.Fatalf("List() = %v, %v", tasks, err)
			}
			got := tasks[0]
			if got.ID != id || got.Status != planning.StatusInProgress || got.Progress != 30 {
				t.Errorf("stored task = %+v", got)
			}
			if got.PlannedEndDate != "2024-05-01" || len(got.Assignees) != 1 || got.Priority != planning.PriorityMedium {
				t.Errorf("Update() touched unset fields: %+v", got)
			}

			if err := store.Update(ctx, "nope", upd); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update(nope) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(NewFilesystemBackend(t.TempDir()))
	sess := session.Session{
		Token:     "tok",
		UserID:    "u1",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx, "tok")
	if err != nil || got.UserID != "u1" || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("Load() = %+v, %v", got, err)
	}
	if err := store.Delete(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "tok"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Load() after Delete error = %v, want session.ErrNotFound", err)
	}
	if err := store.Delete(ctx, "tok"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want session.ErrNotFound", err)
	}
}

func TestAuditRepository_ChainSurvivesDisk(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), DefaultDir)
	repo := NewAuditRepository(NewFilesystemBackend(root))

	prev := ""
	for i, action := range []string{domain.ActionTaskCreated, domain.ActionTaskUpdated} {
		e := domain.Event{
			ID:        []string{"e1", "e2"}[i],
			Timestamp: time.Date(2024, 3, 5, 10, i, 0, 123456789, time.UTC),
			Action:    action,
			Actor:     "u1",
			Metadata:  map[string]any{"task_id": "t1", "fields": []string{"progress", "status"}, "persisted": true},
		}
		e.Seal(prev)
		prev = e.Hash
		if err := repo.Append(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	reloaded, err := NewAuditRepository(NewFilesystemBackend(root)).Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded) != 2 {
		t.Fatalf("Events() = %d, want 2", len(reloaded))
	}
	if v := domain.VerifyChain(reloaded); len(v) != 0 {
		t.Errorf("VerifyChain() after reload = %v", v)
	}
	if err := repo.Append(ctx, domain.Event{}); err == nil {
		t.Error("Append() without id expected error")
	}
}
