package application_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/finance"
	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// MockTaskStore keeps tasks in memory. Set a Func field to override one
// operation, e.g. to inject a persistence failure.
type MockTaskStore struct {
	mu      sync.Mutex
	tasks   map[string]planning.Task
	order   []string
	nextID  int
	Updates []string

	CreateFunc func(ctx context.Context, t planning.Task) (string, error)
	UpdateFunc func(ctx context.Context, id string, u planning.TaskUpdate) error
	DeleteFunc func(ctx context.Context, id string) error
	ListFunc   func(ctx context.Context) ([]planning.Task, error)
}

func NewMockTaskStore(tasks ...planning.Task) *MockTaskStore {
	m := &MockTaskStore{tasks: make(map[string]planning.Task)}
	for _, t := range tasks {
		m.tasks[t.ID] = t
		m.order = append(m.order, t.ID)
	}
	return m
}

func (m *MockTaskStore) Create(ctx context.Context, t planning.Task) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	t.ID = fmt.Sprintf("srv-%d", m.nextID)
	m.tasks[t.ID] = t
	m.order = append(m.order, t.ID)
	return t.ID, nil
}

func (m *MockTaskStore) Update(ctx context.Context, id string, u planning.TaskUpdate) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, id, u); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return planning.ErrTaskNotFound
	}
	m.tasks[id] = u.Apply(t)
	m.Updates = append(m.Updates, id)
	return nil
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func (m *MockTaskStore) List(ctx context.Context) ([]planning.Task, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []planning.Task
	for _, id := range m.order {
		if t, ok := m.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Stored returns the persisted copy of a task.
func (m *MockTaskStore) Stored(id string) planning.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[id]
}

type MockProjectStore struct {
	Projects []planning.Project
	ListErr  error
}

func (m *MockProjectStore) Create(_ context.Context, p planning.Project) (string, error) {
	p.ID = fmt.Sprintf("proj-%d", len(m.Projects)+1)
	m.Projects = append(m.Projects, p)
	return p.ID, nil
}

func (m *MockProjectStore) List(context.Context) ([]planning.Project, error) {
	return m.Projects, m.ListErr
}

type MockUserStore struct {
	Users []access.User
}

func (m *MockUserStore) Create(_ context.Context, u access.User) (string, error) {
	m.Users = append(m.Users, u)
	return u.ID, nil
}

func (m *MockUserStore) List(context.Context) ([]access.User, error) {
	return m.Users, nil
}

type MockPaymentStore struct {
	Payments []finance.Payment
}

func (m *MockPaymentStore) Create(_ context.Context, p finance.Payment) (string, error) {
	p.ID = fmt.Sprintf("pay-%d", len(m.Payments)+1)
	m.Payments = append(m.Payments, p)
	return p.ID, nil
}

func (m *MockPaymentStore) List(context.Context) ([]finance.Payment, error) {
	return append([]finance.Payment(nil), m.Payments...), nil
}

type MockAuditRepo struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *MockAuditRepo) Append(_ context.Context, e domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MockAuditRepo) Events(context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.events...), nil
}
