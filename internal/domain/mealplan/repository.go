package mealplan

import "context"

type Repository interface {
	Create(ctx context.Context, p *MealPlan) error
	Update(ctx context.Context, p *MealPlan) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*MealPlan, error)
	List(ctx context.Context, activeOnly bool) ([]MealPlan, error)
}
