// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"mealkit-service/internal/domain/auth"
	"mealkit-service/internal/domain/subscription"
	"mealkit-service/internal/pkg/currency"
	xerrors "mealkit-service/internal/pkg/errors"
	"mealkit-service/internal/pkg/metrics"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// errNoDuePause aborts a Mutate without writing when there is nothing to apply.
var errNoDuePause = errors.New("no pause due")

type SubscriptionService struct {
	repo   subscription.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

func NewSubscriptionService(repo subscription.Repository, loc *time.Location, logger *zap.Logger) *SubscriptionService {
	if loc == nil {
		loc = time.UTC
	}
	return &SubscriptionService{
		repo:   repo,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SubscriptionService) clock() time.Time {
	return s.now().In(s.loc)
}

// ========== Create / Quote ==========

// CreateSubscription places a new order for the calling user
func (s *SubscriptionService) CreateSubscription(ctx context.Context, actor auth.Actor, req *subscription.CreateSubscriptionRequest) (*subscription.SubscriptionResponse, error) {
	if actor.ID == 0 {
		return nil, xerrors.ErrUnauthorized
	}

	sub := &subscription.Subscription{
		Reference:    "SUB-" + ulid.Make().String(),
		UserID:       actor.ID,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Allergies:    strings.TrimSpace(req.Allergies),
		Status:       subscription.StatusActive,
		PausePeriods: []subscription.PausePeriod{},
	}

	if err := sub.ApplySelections(req.Plan, req.MealTypes, req.DeliveryDays); err != nil {
		metrics.RecordSubscriptionEvent(metrics.EventCreated, err)
		return nil, err
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.Error("failed to create subscription", zap.Int64("user_id", actor.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	metrics.RecordSubscriptionEvent(metrics.EventCreated, nil)

	s.logger.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.String("reference", sub.Reference),
		zap.Int64("user_id", sub.UserID),
		zap.String("plan", string(sub.Plan)),
		zap.Int64("total_price", sub.TotalPrice),
	)

	return toResponse(sub), nil
}

// Quote prices a selection without storing anything. Incomplete selections
// quote at zero; unknown values are rejected.
func (s *SubscriptionService) Quote(req *subscription.QuoteRequest) (*subscription.QuoteResponse, error) {
	if req.Plan != "" && !req.Plan.IsValid() {
		return nil, &subscription.Error{Kind: subscription.KindInvalidConfiguration, Message: fmt.Sprintf("unknown plan %q", req.Plan)}
	}
	for _, m := range req.MealTypes {
		if !m.IsValid() {
			return nil, &subscription.Error{Kind: subscription.KindInvalidConfiguration, Message: fmt.Sprintf("unknown meal type %q", m)}
		}
	}
	for _, d := range req.DeliveryDays {
		if !d.IsValid() {
			return nil, &subscription.Error{Kind: subscription.KindInvalidConfiguration, Message: fmt.Sprintf("unknown delivery day %q", d)}
		}
	}

	total := subscription.ComputeTotalPrice(req.Plan, req.MealTypes, req.DeliveryDays)
	return &subscription.QuoteResponse{
		Plan:           req.Plan,
		MealCount:      len(subscription.UniqueMealTypes(req.MealTypes)),
		DayCount:       len(subscription.UniqueDeliveryDays(req.DeliveryDays)),
		TotalPrice:     total,
		FormattedPrice: currency.FormatRupiah(total),
	}, nil
}

// ========== Read ==========

// GetSubscription returns one subscription the actor may see
func (s *SubscriptionService) GetSubscription(ctx context.Context, actor auth.Actor, id int64) (*subscription.SubscriptionResponse, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toResponse(sub), nil
}

// ListMySubscriptions lists the actor's own subscriptions
func (s *SubscriptionService) ListMySubscriptions(ctx context.Context, actor auth.Actor, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	if actor.ID == 0 {
		return nil, xerrors.ErrUnauthorized
	}
	filters.UserID = actor.ID
	return s.list(ctx, filters)
}

// ListAllSubscriptions lists every subscription (admin)
func (s *SubscriptionService) ListAllSubscriptions(ctx context.Context, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	return s.list(ctx, filters)
}

func (s *SubscriptionService) list(ctx context.Context, filters *subscription.SubscriptionListFilters) (*subscription.SubscriptionListResponse, error) {
	// Set defaults
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	subs, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	items := make([]subscription.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, *toResponse(&subs[i]))
	}

	return &subscription.SubscriptionListResponse{
		Subscriptions: items,
		Total:         total,
		Page:          filters.Page,
		PageSize:      filters.PageSize,
		TotalPages:    int(math.Ceil(float64(total) / float64(filters.PageSize))),
	}, nil
}

// GetBillingSummary reports price, next billing date and pause state
func (s *SubscriptionService) GetBillingSummary(ctx context.Context, actor auth.Actor, id int64) (*subscription.BillingSummary, error) {
	sub, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	summary := &subscription.BillingSummary{
		SubscriptionID:     sub.ID,
		Status:             sub.Status,
		TotalPrice:         sub.TotalPrice,
		FormattedPrice:     currency.FormatRupiah(sub.TotalPrice),
		IsCurrentlyPaused:  sub.IsCurrentlyPaused(now),
		CurrentPausePeriod: sub.CurrentPausePeriod(now),
	}
	if next, ok := sub.NextBillingDate(now); ok {
		summary.NextBillingDate = &next
	}

	return summary, nil
}

// GetStats aggregates subscriptions for the admin dashboard. The range is
// inclusive of both dates and defaults to the current month.
func (s *SubscriptionService) GetStats(ctx context.Context, filters *subscription.StatsFilters) (*subscription.SubscriptionStats, error) {
	now := s.clock()

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	if !filters.From.IsZero() {
		from = time.Date(filters.From.Year(), filters.From.Month(), filters.From.Day(), 0, 0, 0, 0, s.loc)
	}

	to := from.AddDate(0, 1, 0)
	if !filters.To.IsZero() {
		to = time.Date(filters.To.Year(), filters.To.Month(), filters.To.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	}

	if !to.After(from) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "'to' must not be before 'from'")
	}

	stats, err := s.repo.GetStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription stats: %w", err)
	}
	return stats, nil
}

// ========== Mutations ==========

// UpdateSubscription edits contact details and selections, repricing when
// the selections change
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.UpdateSubscriptionRequest) (*subscription.SubscriptionResponse, error) {
	sub, err := s.repo.Mutate(ctx, id, func(sub *subscription.Subscription) error {
		if !actor.CanAccess(sub.UserID) {
			return xerrors.ErrForbidden
		}
		if sub.Status == subscription.StatusCancelled {
			return &subscription.Error{
				Kind:    subscription.KindInvalidStateTransition,
				Message: "cannot change a cancelled subscription",
			}
		}

		if req.Plan != nil || req.MealTypes != nil || req.DeliveryDays != nil {
			plan, mealTypes, deliveryDays := sub.Plan, sub.MealTypes, sub.DeliveryDays
			if req.Plan != nil {
				plan = *req.Plan
			}
			if req.MealTypes != nil {
				mealTypes = req.MealTypes
			}
			if req.DeliveryDays != nil {
				deliveryDays = req.DeliveryDays
			}
			if err := sub.ApplySelections(plan, mealTypes, deliveryDays); err != nil {
				return err
			}
		}

		if req.FullName != nil {
			sub.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.PhoneNumber != nil {
			sub.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		}
		if req.Allergies != nil {
			sub.Allergies = strings.TrimSpace(*req.Allergies)
		}
		return nil
	})
	metrics.RecordSubscriptionEvent(metrics.EventUpdated, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated",
		zap.Int64("subscription_id", sub.ID),
		zap.String("plan", string(sub.Plan)),
		zap.Int64("total_price", sub.TotalPrice),
	)

	return toResponse(sub), nil
}

// PauseSubscription records a pause period and pauses now if it has begun
func (s *SubscriptionService) PauseSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.PauseSubscriptionRequest) (*subscription.SubscriptionResponse, error) {
	start, end, err := req.Period(s.loc)
	if err != nil {
		return nil, &subscription.Error{Kind: subscription.KindInvalidDateRange, Message: err.Error()}
	}

	now := s.clock()
	sub, err := s.repo.Mutate(ctx, id, func(sub *subscription.Subscription) error {
		if !actor.CanAccess(sub.UserID) {
			return xerrors.ErrForbidden
		}
		return sub.Pause(start, end, req.Reason, now)
	})
	metrics.RecordSubscriptionEvent(metrics.EventPaused, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription paused",
		zap.Int64("subscription_id", sub.ID),
		zap.Time("start_date", start),
		zap.Time("end_date", end),
		zap.String("status", string(sub.Status)),
	)

	return toResponse(sub), nil
}

// ReactivateSubscription resumes a paused subscription
func (s *SubscriptionService) ReactivateSubscription(ctx context.Context, actor auth.Actor, id int64) (*subscription.SubscriptionResponse, error) {
	now := s.clock()
	sub, err := s.repo.Mutate(ctx, id, func(sub *subscription.Subscription) error {
		if !actor.CanAccess(sub.UserID) {
			return xerrors.ErrForbidden
		}
		return sub.Reactivate(now)
	})
	metrics.RecordSubscriptionEvent(metrics.EventReactivated, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription reactivated", zap.Int64("subscription_id", sub.ID))
	return toResponse(sub), nil
}

// CancelSubscription ends a subscription permanently
func (s *SubscriptionService) CancelSubscription(ctx context.Context, actor auth.Actor, id int64, req *subscription.CancelSubscriptionRequest) (*subscription.SubscriptionResponse, error) {
	now := s.clock()
	sub, err := s.repo.Mutate(ctx, id, func(sub *subscription.Subscription) error {
		if !actor.CanAccess(sub.UserID) {
			return xerrors.ErrForbidden
		}
		return sub.Cancel(req.Reason, now)
	})
	metrics.RecordSubscriptionEvent(metrics.EventCancelled, err)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription cancelled",
		zap.Int64("subscription_id", sub.ID),
		zap.String("reason", sub.CancellationReason),
	)

	return toResponse(sub), nil
}

// DeleteSubscription removes a subscription record
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, actor auth.Actor, id int64) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	metrics.RecordSubscriptionEvent(metrics.EventDeleted, err)
	if err != nil {
		return err
	}

	s.logger.Info("subscription deleted",
		zap.Int64("subscription_id", id),
		zap.Int64("actor_id", actor.ID),
	)
	return nil
}

// ApplyScheduledPauses flips active subscriptions whose scheduled pause has
// started into the paused state
func (s *SubscriptionService) ApplyScheduledPauses(ctx context.Context) (*subscription.ApplyScheduledPausesResponse, error) {
	active, err := s.repo.ListByStatus(ctx, subscription.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions: %w", err)
	}

	now := s.clock()
	result := &subscription.ApplyScheduledPausesResponse{Checked: len(active), IDs: []int64{}}

	for i := range active {
		candidate := active[i]
		if !candidate.ApplyDuePause(now) {
			continue
		}

		_, err := s.repo.Mutate(ctx, candidate.ID, func(sub *subscription.Subscription) error {
			if !sub.ApplyDuePause(now) {
				return errNoDuePause
			}
			return nil
		})
		if errors.Is(err, errNoDuePause) || errors.Is(err, xerrors.ErrNotFound) {
			continue
		}
		metrics.RecordSubscriptionEvent(metrics.EventPauseApplied, err)
		if err != nil {
			s.logger.Error("failed to apply scheduled pause",
				zap.Int64("subscription_id", candidate.ID),
				zap.Error(err),
			)
			return result, fmt.Errorf("failed to apply scheduled pause to subscription %d: %w", candidate.ID, err)
		}

		result.Paused++
		result.IDs = append(result.IDs, candidate.ID)
	}

	s.logger.Info("scheduled pauses applied",
		zap.Int("checked", result.Checked),
		zap.Int("paused", result.Paused),
	)

	return result, nil
}

// load fetches a subscription and enforces ownership
func (s *SubscriptionService) load(ctx context.Context, actor auth.Actor, id int64) (*subscription.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(sub.UserID) {
		return nil, xerrors.ErrForbidden
	}
	return sub, nil
}

func toResponse(sub *subscription.Subscription) *subscription.SubscriptionResponse {
	return &subscription.SubscriptionResponse{
		Subscription:   *sub,
		FormattedPrice: currency.FormatRupiah(sub.TotalPrice),
	}
}
