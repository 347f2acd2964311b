package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/directory"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
)

// Collection is a typed view of one backend collection.
type Collection[T any] struct {
	backend Backend
	name    string
}

func NewCollection[T any](b Backend, name string) *Collection[T] {
	return &Collection[T]{backend: b, name: name}
}

// Create stores v under an id chosen by the backend. Any id already on v
// is discarded.
func (c *Collection[T]) Create(ctx context.Context, v T) (string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return "", err
	}
	delete(doc, "id")
	return c.backend.Insert(ctx, c.name, doc)
}

// Put stores v under its own id, replacing any document with that id.
func (c *Collection[T]) Put(ctx context.Context, v T) (string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return "", err
	}
	return c.backend.Insert(ctx, c.name, doc)
}

// Merge writes the JSON fields of patch over the stored record.
func (c *Collection[T]) Merge(ctx context.Context, id string, patch any) error {
	doc, err := toDocument(patch)
	if err != nil {
		return err
	}
	return c.backend.Merge(ctx, c.name, id, doc)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}

// List decodes every document of the collection.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := c.backend.All(ctx, c.name)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := fromDocument[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// TaskStore implements planning.TaskStore on a backend.
type TaskStore struct {
	*Collection[planning.Task]
}

var _ planning.TaskStore = TaskStore{}

func NewTaskStore(b Backend) TaskStore {
	return TaskStore{NewCollection[planning.Task](b, CollectionTasks)}
}

// Update merges the fields set in u into the stored task.
func (s TaskStore) Update(ctx context.Context, id string, u planning.TaskUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	return s.Merge(ctx, id, u)
}

// Stores groups the typed stores of one backend.
type Stores struct {
	Backend       Backend
	Tasks         TaskStore
	Projects      *Collection[planning.Project]
	Users         *Collection[access.User]
	Payments      *Collection[finance.Payment]
	Contacts      *Collection[directory.Contact]
	Meetings      *Collection[directory.Meeting]
	Organizations *Collection[directory.Organization]
	Sessions      *SessionStore
	Audit         *AuditRepository
}

// NewStores builds every typed store over b.
func NewStores(b Backend) *Stores {
	return &Stores{
		Backend:       b,
		Tasks:         NewTaskStore(b),
		Projects:      NewCollection[planning.Project](b, CollectionProjects),
		Users:         NewCollection[access.User](b, CollectionUsers),
		Payments:      NewCollection[finance.Payment](b, CollectionPayments),
		Contacts:      NewCollection[directory.Contact](b, CollectionContacts),
		Meetings:      NewCollection[directory.Meeting](b, CollectionMeetings),
		Organizations: NewCollection[directory.Organization](b, CollectionOrganizations),
		Sessions:      NewSessionStore(b),
		Audit:         NewAuditRepository(b),
	}
}

var (
	_ planning.ProjectStore  = (*Collection[planning.Project])(nil)
	_ access.UserStore       = (*Collection[access.User])(nil)
	_ finance.PaymentStore   = (*Collection[finance.Payment])(nil)
	_ directory.ContactStore = (*Collection[directory.Contact])(nil)
	_ directory.MeetingStore = (*Collection[directory.Meeting])(nil)
)

// SessionStore implements session.Store, keyed by token.
type SessionStore struct {
	backend Backend
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(b Backend) *SessionStore {
	return &SessionStore{backend: b}
}

func (s *SessionStore) Save(ctx context.Context, sess session.Session) error {
	doc, err := toDocument(sess)
	if err != nil {
		return err
	}
	doc["id"] = sess.Token
	_, err = s.backend.Insert(ctx, CollectionSessions, doc)
	return err
}

func (s *SessionStore) Load(ctx context.Context, token string) (session.Session, error) {
	docs, err := s.backend.All(ctx, CollectionSessions)
	if err != nil {
		return session.Session{}, err
	}
	for _, d := range docs {
		if d.ID() == token {
			return fromDocument[session.Session](d)
		}
	}
	return session.Session{}, session.ErrNotFound
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	err := s.backend.Delete(ctx, CollectionSessions, token)
	if errors.Is(err, ErrNotFound) {
		return session.ErrNotFound
	}
	return err
}

// AuditRepository implements domain.AuditRepository.
type AuditRepository struct {
	events *Collection[domain.Event]
}

var _ domain.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(b Backend) *AuditRepository {
	return &AuditRepository{events: NewCollection[domain.Event](b, CollectionAudit)}
}

func (r *AuditRepository) Append(ctx context.Context, e domain.Event) error {
	if e.ID == "" {
		return fmt.Errorf("audit event without id")
	}
	_, err := r.events.Put(ctx, e)
	return err
}

func (r *AuditRepository) Events(ctx context.Context) ([]domain.Event, error) {
	return r.events.List(ctx)
}
