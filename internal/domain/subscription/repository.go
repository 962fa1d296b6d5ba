package subscription

import (
	"context"
	"time"
)

// MutateFunc edits a subscription loaded under a row lock. Returning an error
// discards the edit.
type MutateFunc func(sub *Subscription) error

type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	FindByID(ctx context.Context, id int64) (*Subscription, error)
	List(ctx context.Context, filters *SubscriptionListFilters) ([]Subscription, int64, error)
	ListByStatus(ctx context.Context, status SubscriptionStatus) ([]Subscription, error)
	Delete(ctx context.Context, id int64) error

	// Mutate serialises read-modify-write on one record.
	Mutate(ctx context.Context, id int64, fn MutateFunc) (*Subscription, error)

	GetStats(ctx context.Context, from, to time.Time) (*SubscriptionStats, error)
}
