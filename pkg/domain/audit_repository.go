package domain

import "context"

// AuditRepository persists the audit chain in append order.
type AuditRepository interface {
	Append(ctx context.Context, event Event) error
	Events(ctx context.Context) ([]Event, error)
}
