// internal/domain/mealplan/entity.go
package mealplan

import (
	"time"

	"mealkit-service/internal/domain/subscription"
)

// MealPlan is a catalogue entry shown on the menu page. Its price is
// informational; subscriptions are always priced from the tier.
type MealPlan struct {
	ID          int64                 `json:"id" db:"id"`
	Tier        subscription.PlanTier `json:"tier" db:"tier"`
	Name        string                `json:"name" db:"name"`
	Description string                `json:"description" db:"description"`
	Price       int64                 `json:"price" db:"price"`
	Features    []string              `json:"features" db:"features"`
	ImageURL    string                `json:"imageUrl,omitempty" db:"image_url"`
	IsActive    bool                  `json:"isActive" db:"is_active"`
	CreatedAt   time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time             `json:"updatedAt" db:"updated_at"`
}

type MealPlanResponse struct {
	MealPlan
	FormattedPrice string `json:"formattedPrice"`
}
