// internal/repository/postgres/mealplan_repo.go
package postgres

import (
	"context"
	"fmt"

	"mealkit-service/internal/domain/mealplan"
	"mealkit-service/internal/domain/subscription"
	xerrors "mealkit-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type MealPlanRepository struct {
	db *pgxpool.Pool
}

func NewMealPlanRepository(db *pgxpool.Pool) *MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Create creates a new meal plan
func (r *MealPlanRepository) Create(ctx context.Context, p *mealplan.MealPlan) error {
	query := `
		INSERT INTO meal_plans (tier, name, description, price, features, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		string(p.Tier), p.Name, p.Description, p.Price, pq.Array(nonNilStrings(p.Features)), p.ImageURL, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create meal plan: %w", err)
	}
	return nil
}

// Update updates a meal plan
func (r *MealPlanRepository) Update(ctx context.Context, p *mealplan.MealPlan) error {
	query := `
		UPDATE meal_plans
		SET name = $1, description = $2, price = $3, features = $4,
		    image_url = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.Name, p.Description, p.Price, pq.Array(nonNilStrings(p.Features)), p.ImageURL, p.IsActive, p.ID,
	).Scan(&p.UpdatedAt)
	if isNoRows(err) {
		return xerrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update meal plan: %w", err)
	}
	return nil
}

// Delete removes a meal plan
func (r *MealPlanRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// FindByID retrieves a meal plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id int64) (*mealplan.MealPlan, error) {
	query := `
		SELECT id, tier, name, description, price, features, image_url, is_active, created_at, updated_at
		FROM meal_plans
		WHERE id = $1
	`

	p, err := scanMealPlan(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find meal plan: %w", err)
	}
	return p, nil
}

// List returns meal plans ordered by price
func (r *MealPlanRepository) List(ctx context.Context, activeOnly bool) ([]mealplan.MealPlan, error) {
	query := `
		SELECT id, tier, name, description, price, features, image_url, is_active, created_at, updated_at
		FROM meal_plans
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY price ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	plans := []mealplan.MealPlan{}
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func scanMealPlan(row pgx.Row) (*mealplan.MealPlan, error) {
	var p mealplan.MealPlan
	var tier string

	err := row.Scan(
		&p.ID, &tier, &p.Name, &p.Description, &p.Price, pq.Array(&p.Features),
		&p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Tier = subscription.PlanTier(tier)
	return &p, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
