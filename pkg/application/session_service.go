package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/nihulit/pkg/domain/access"
	"github.com/felixgeelhaar/nihulit/pkg/domain/session"
)

var (
	ErrUnknownUser  = errors.New("unknown user")
	ErrInactiveUser = errors.New("user is inactive")
)

// SessionService binds sessions to users. Credentials are checked by the
// identity provider in front of the system; Login trusts the username.
type SessionService struct {
	manager *session.Manager
	users   access.UserStore
}

func NewSessionService(manager *session.Manager, users access.UserStore) *SessionService {
	return &SessionService{manager: manager, users: users}
}

// Login starts a session for the active user with the given username or id.
func (s *SessionService) Login(ctx context.Context, username string) (session.Session, access.User, error) {
	u, err := s.find(ctx, username)
	if err != nil {
		return session.Session{}, access.User{}, err
	}
	sess, err := s.manager.Start(ctx, u.ID)
	if err != nil {
		return session.Session{}, access.User{}, err
	}
	return sess, u, nil
}

// Current resolves token to its user.
func (s *SessionService) Current(ctx context.Context, token string) (access.User, error) {
	sess, err := s.manager.Resume(ctx, token)
	if err != nil {
		return access.User{}, err
	}
	return s.find(ctx, sess.UserID)
}

// Logout ends the session.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.manager.End(ctx, token)
}

func (s *SessionService) find(ctx context.Context, key string) (access.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return access.User{}, fmt.Errorf("list users: %w", err)
	}
	u, ok := access.FindUser(users, key)
	if !ok {
		return access.User{}, fmt.Errorf("%w: %s", ErrUnknownUser, key)
	}
	if !u.Active {
		return access.User{}, fmt.Errorf("%w: %s", ErrInactiveUser, key)
	}
	return u, nil
}
