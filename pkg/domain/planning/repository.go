package planning

import "context"

// TaskStore persists tasks. Create returns the id assigned by the store;
// callers must not presume one before Create succeeds.
type TaskStore interface {
	Create(ctx context.Context, task Task) (string, error)
	Update(ctx context.Context, id string, update TaskUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Task, error)
}

// ProjectStore persists projects.
type ProjectStore interface {
	Create(ctx context.Context, project Project) (string, error)
	List(ctx context.Context) ([]Project, error)
}
