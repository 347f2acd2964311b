package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/nihulit/pkg/domain"
)

// AuditService appends hash-chained audit events to a repository.
type AuditService struct {
	mu   sync.Mutex
	repo domain.AuditRepository
	now  func() time.Time
}

var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo, now: time.Now}
}

// Log records an event chained to the last stored one.
func (s *AuditService) Log(ctx context.Context, action, actor string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	events, err := s.repo.Events(ctx)
	if err != nil {
		return fmt.Errorf("load audit chain: %w", err)
	}
	prev := ""
	if len(events) > 0 {
		prev = events[len(events)-1].Hash
	}

	event := domain.Event{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Action:    action,
		Actor:     actor,
		Metadata:  metadata,
	}
	event.Seal(prev)
	return s.repo.Append(ctx, event)
}

// Timeline returns all audit events in append order.
func (s *AuditService) Timeline(ctx context.Context) ([]domain.Event, error) {
	return s.repo.Events(ctx)
}

// VerifyIntegrity checks the stored chain.
func (s *AuditService) VerifyIntegrity(ctx context.Context) ([]domain.ChainViolation, error) {
	events, err := s.repo.Events(ctx)
	if err != nil {
		return nil, err
	}
	return domain.VerifyChain(events), nil
}
