package subscription

import (
	"context"
	"sort"
	"sync"
	"time"

	"mealkit-service/internal/domain/subscription"
	xerrors "mealkit-service/internal/pkg/errors"
)

// memRepo is an in-memory subscription.Repository. Mutate holds the lock for
// the whole read-modify-write, like the row lock in postgres.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]*subscription.Subscription
}

func newMemRepo() *memRepo {
	return &memRepo{subs: map[int64]*subscription.Subscription{}}
}

func clone(s *subscription.Subscription) *subscription.Subscription {
	cp := *s
	cp.MealTypes = append([]subscription.MealType(nil), s.MealTypes...)
	cp.DeliveryDays = append([]subscription.DeliveryDay(nil), s.DeliveryDays...)
	cp.PausePeriods = append([]subscription.PausePeriod{}, s.PausePeriods...)
	if s.CancellationDate != nil {
		d := *s.CancellationDate
		cp.CancellationDate = &d
	}
	return &cp
}

func (r *memRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	sub.ID = r.nextID
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = sub.CreatedAt
	r.subs[sub.ID] = clone(sub)
	return nil
}

func (r *memRepo) FindByID(_ context.Context, id int64) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return clone(s), nil
}

func (r *memRepo) List(_ context.Context, f *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []subscription.Subscription
	for _, s := range r.subs {
		if f.UserID != 0 && s.UserID != f.UserID {
			continue
		}
		if f.Status != nil && s.Status != *f.Status {
			continue
		}
		if f.Plan != nil && s.Plan != *f.Plan {
			continue
		}
		all = append(all, *clone(s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	start := (f.Page - 1) * f.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memRepo) ListByStatus(_ context.Context, status subscription.SubscriptionStatus) ([]subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []subscription.Subscription{}
	for _, s := range r.subs {
		if s.Status == status {
			out = append(out, *clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

func (r *memRepo) Mutate(_ context.Context, id int64, fn subscription.MutateFunc) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.subs[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}

	working := clone(s)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	r.subs[id] = clone(working)
	return working, nil
}

func (r *memRepo) GetStats(_ context.Context, from, to time.Time) (*subscription.SubscriptionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var st subscription.SubscriptionStats
	for _, s := range r.subs {
		st.TotalSubscriptions++
		switch s.Status {
		case subscription.StatusActive:
			st.ActiveSubscriptions++
			st.MonthlyRecurringRevenue += s.TotalPrice
		case subscription.StatusPaused:
			st.PausedSubscriptions++
		case subscription.StatusCancelled:
			st.CancelledSubscriptions++
		}
		if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
			st.NewSubscriptions++
		}
	}
	return &st, nil
}
