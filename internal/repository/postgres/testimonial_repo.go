// internal/repository/postgres/testimonial_repo.go
package postgres

import (
	"context"
	"fmt"

	"mealkit-service/internal/domain/subscription"
	"mealkit-service/internal/domain/testimonial"
	xerrors "mealkit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestimonialRepository struct {
	db *pgxpool.Pool
}

func NewTestimonialRepository(db *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// Create stores a submitted testimonial
func (r *TestimonialRepository) Create(ctx context.Context, t *testimonial.Testimonial) error {
	query := `
		INSERT INTO testimonials (customer_name, message, rating, plan, is_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, t.CustomerName, t.Message, t.Rating, string(t.Plan), t.IsApproved).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

// List returns newest testimonials first
func (r *TestimonialRepository) List(ctx context.Context, filters testimonial.ListFilters) ([]testimonial.Testimonial, error) {
	limit := filters.Limit
	if limit < 1 {
		limit = 50
	}

	query := `
		SELECT id, customer_name, message, rating, plan, is_approved, created_at
		FROM testimonials
		WHERE ($1 = FALSE OR is_approved = TRUE)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, filters.ApprovedOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	out := []testimonial.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan testimonial: %w", err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Approve publishes a testimonial
func (r *TestimonialRepository) Approve(ctx context.Context, id int64) (*testimonial.Testimonial, error) {
	query := `
		UPDATE testimonials SET is_approved = TRUE
		WHERE id = $1
		RETURNING id, customer_name, message, rating, plan, is_approved, created_at
	`

	t, err := scanTestimonial(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to approve testimonial: %w", err)
	}
	return t, nil
}

// Delete removes a testimonial
func (r *TestimonialRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func scanTestimonial(row pgx.Row) (*testimonial.Testimonial, error) {
	var t testimonial.Testimonial
	var plan string

	if err := row.Scan(&t.ID, &t.CustomerName, &t.Message, &t.Rating, &plan, &t.IsApproved, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Plan = subscription.PlanTier(plan)
	return &t, nil
}
