// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mealkit-service/internal/domain/subscription"
	xerrors "mealkit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const subscriptionColumns = `
	id, reference, user_id, full_name, phone_number,
	plan, meal_types, delivery_days, allergies, total_price,
	status, pause_periods, cancellation_date, cancellation_reason,
	created_at, updated_at`

const lockSubscriptionQuery = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1 FOR UPDATE`

type SubscriptionRepository struct {
	db *DB
}

func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create inserts a new subscription
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			reference, user_id, full_name, phone_number,
			plan, meal_types, delivery_days, allergies, total_price,
			status, pause_periods, cancellation_date, cancellation_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	pausesJSON, err := marshalPausePeriods(sub.PausePeriods)
	if err != nil {
		return err
	}

	err = r.db.Pool().QueryRow(
		ctx, query,
		sub.Reference, sub.UserID, sub.FullName, sub.PhoneNumber,
		string(sub.Plan), pq.Array(mealTypeStrings(sub.MealTypes)), pq.Array(deliveryDayStrings(sub.DeliveryDays)),
		sub.Allergies, sub.TotalPrice,
		string(sub.Status), pausesJSON, sub.CancellationDate, sub.CancellationReason,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by ID
func (r *SubscriptionRepository) FindByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	sub, err := scanSubscription(r.db.Pool().QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, xerrors.Wrapf(xerrors.ErrNotFound, "subscription %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return sub, nil
}

// Mutate loads the row with FOR UPDATE, applies fn and writes the result back
// in the same transaction. Concurrent callers on one id run one at a time.
func (r *SubscriptionRepository) Mutate(ctx context.Context, id int64, fn subscription.MutateFunc) (*subscription.Subscription, error) {
	var result *subscription.Subscription

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		sub, err := scanSubscription(tx.QueryRow(ctx, lockSubscriptionQuery, id))
		if isNoRows(err) {
			return xerrors.Wrapf(xerrors.ErrNotFound, "subscription %d", id)
		}
		if err != nil {
			return fmt.Errorf("failed to lock subscription: %w", err)
		}

		if err := fn(sub); err != nil {
			return err
		}

		if err := updateSubscription(ctx, tx, sub); err != nil {
			return err
		}

		result = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func updateSubscription(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error {
	query := `
		UPDATE subscriptions
		SET full_name = $1, phone_number = $2, plan = $3, meal_types = $4,
		    delivery_days = $5, allergies = $6, total_price = $7, status = $8,
		    pause_periods = $9, cancellation_date = $10, cancellation_reason = $11,
		    updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at
	`

	pausesJSON, err := marshalPausePeriods(sub.PausePeriods)
	if err != nil {
		return err
	}

	err = tx.QueryRow(
		ctx, query,
		sub.FullName, sub.PhoneNumber, string(sub.Plan),
		pq.Array(mealTypeStrings(sub.MealTypes)), pq.Array(deliveryDayStrings(sub.DeliveryDays)),
		sub.Allergies, sub.TotalPrice, string(sub.Status),
		pausesJSON, sub.CancellationDate, sub.CancellationReason, sub.ID,
	).Scan(&sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Pool().Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.Wrapf(xerrors.ErrNotFound, "subscription %d", id)
	}
	return nil
}

// List retrieves subscriptions with filters
func (r *SubscriptionRepository) List(ctx context.Context, filters *subscription.SubscriptionListFilters) ([]subscription.Subscription, int64, error) {
	q := buildListQuery(filters)

	var total int64
	if err := r.db.Pool().QueryRow(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	subs, err := r.query(ctx, q.list, q.listArgs...)
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

type listQuery struct {
	count     string
	countArgs []interface{}
	list      string
	listArgs  []interface{}
}

// buildListQuery numbers placeholders in filter order, then LIMIT and OFFSET.
// Page and PageSize are defaulted in place.
func buildListQuery(filters *subscription.SubscriptionListFilters) listQuery {
	conditions := []string{"1 = 1"}
	args := []interface{}{}
	argPos := 1

	if filters.UserID != 0 {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, filters.UserID)
		argPos++
	}

	if filters.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*filters.Status))
		argPos++
	}

	if filters.Plan != nil {
		conditions = append(conditions, fmt.Sprintf("plan = $%d", argPos))
		args = append(args, string(*filters.Plan))
		argPos++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Pagination
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	offset := (filters.Page - 1) * filters.PageSize

	sortOrder := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	list := fmt.Sprintf(`
		SELECT %s
		FROM subscriptions
		WHERE %s
		ORDER BY created_at %s, id %s
		LIMIT $%d OFFSET $%d
	`, subscriptionColumns, whereClause, sortOrder, sortOrder, argPos, argPos+1)

	listArgs := make([]interface{}, 0, len(args)+2)
	listArgs = append(listArgs, args...)
	listArgs = append(listArgs, filters.PageSize, offset)

	return listQuery{
		count:     fmt.Sprintf("SELECT COUNT(*) FROM subscriptions WHERE %s", whereClause),
		countArgs: args,
		list:      list,
		listArgs:  listArgs,
	}
}

// ListByStatus returns every subscription in the given status
func (r *SubscriptionRepository) ListByStatus(ctx context.Context, status subscription.SubscriptionStatus) ([]subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE status = $1 ORDER BY id`
	return r.query(ctx, query, string(status))
}

// GetStats counts subscriptions by status and sums recurring revenue.
// New subscriptions are those created in [from, to).
func (r *SubscriptionRepository) GetStats(ctx context.Context, from, to time.Time) (*subscription.SubscriptionStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'paused'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COALESCE(SUM(total_price) FILTER (WHERE status = 'active'), 0)
		FROM subscriptions
	`

	var stats subscription.SubscriptionStats
	err := r.db.Pool().QueryRow(ctx, query, from, to).Scan(
		&stats.TotalSubscriptions,
		&stats.ActiveSubscriptions,
		&stats.PausedSubscriptions,
		&stats.CancelledSubscriptions,
		&stats.NewSubscriptions,
		&stats.MonthlyRecurringRevenue,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription stats: %w", err)
	}

	return &stats, nil
}

func (r *SubscriptionRepository) query(ctx context.Context, query string, args ...interface{}) ([]subscription.Subscription, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []subscription.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscriptions: %w", err)
	}

	return subs, nil
}

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var (
		sub          subscription.Subscription
		plan, status string
		mealTypes    []string
		deliveryDays []string
		pausesJSON   []byte
	)

	err := row.Scan(
		&sub.ID, &sub.Reference, &sub.UserID, &sub.FullName, &sub.PhoneNumber,
		&plan, pq.Array(&mealTypes), pq.Array(&deliveryDays), &sub.Allergies, &sub.TotalPrice,
		&status, &pausesJSON, &sub.CancellationDate, &sub.CancellationReason,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Plan = subscription.PlanTier(plan)
	sub.Status = subscription.SubscriptionStatus(status)

	sub.MealTypes = make([]subscription.MealType, 0, len(mealTypes))
	for _, m := range mealTypes {
		sub.MealTypes = append(sub.MealTypes, subscription.MealType(m))
	}
	sub.DeliveryDays = make([]subscription.DeliveryDay, 0, len(deliveryDays))
	for _, d := range deliveryDays {
		sub.DeliveryDays = append(sub.DeliveryDays, subscription.DeliveryDay(d))
	}

	sub.PausePeriods = []subscription.PausePeriod{}
	if len(pausesJSON) > 0 {
		if err := json.Unmarshal(pausesJSON, &sub.PausePeriods); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pause periods: %w", err)
		}
	}

	return &sub, nil
}

func marshalPausePeriods(periods []subscription.PausePeriod) ([]byte, error) {
	if periods == nil {
		periods = []subscription.PausePeriod{}
	}
	b, err := json.Marshal(periods)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pause periods: %w", err)
	}
	return b, nil
}

func mealTypeStrings(in []subscription.MealType) []string {
	out := make([]string, len(in))
	for i, m := range in {
		out[i] = string(m)
	}
	return out
}

func deliveryDayStrings(in []subscription.DeliveryDay) []string {
	out := make([]string, len(in))
	for i, d := range in {
		out[i] = string(d)
	}
	return out
}
