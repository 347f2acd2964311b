package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Manager creates, loads and ends sessions.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager returns a Manager. A non-positive ttl uses DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, now: time.Now}
}

// WithNow overrides the manager's time source.
func (m *Manager) WithNow(now func() time.Time) *Manager {
	m.now = now
	return m
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start opens a new session for userID.
func (m *Manager) Start(ctx context.Context, userID string) (Session, error) {
	if userID == "" {
		return Session{}, fmt.Errorf("start session: user id required")
	}
	now := m.now().UTC()
	s := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Resume loads the session for token. Expired sessions are removed and
// reported as ErrExpired.
func (m *Manager) Resume(ctx context.Context, token string) (Session, error) {
	s, err := m.store.Load(ctx, token)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
			return Session{}, fmt.Errorf("drop expired session: %w", err)
		}
		return Session{}, ErrExpired
	}
	return s, nil
}

// End removes the session. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
