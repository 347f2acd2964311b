package finance

import "context"

// PaymentStore persists payments.
type PaymentStore interface {
	Create(ctx context.Context, p Payment) (string, error)
	List(ctx context.Context) ([]Payment, error)
}
