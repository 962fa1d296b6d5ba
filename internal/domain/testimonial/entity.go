// internal/domain/testimonial/entity.go
package testimonial

import (
	"context"
	"time"

	"mealkit-service/internal/domain/subscription"
)

type Testimonial struct {
	ID           int64                 `json:"id" db:"id"`
	CustomerName string                `json:"customerName" db:"customer_name"`
	Message      string                `json:"message" db:"message"`
	Rating       int                   `json:"rating" db:"rating"`
	Plan         subscription.PlanTier `json:"plan,omitempty" db:"plan"`
	IsApproved   bool                  `json:"isApproved" db:"is_approved"`
	CreatedAt    time.Time             `json:"createdAt" db:"created_at"`
}

type CreateTestimonialRequest struct {
	CustomerName string                `json:"customerName" binding:"required,max=255"`
	Message      string                `json:"message" binding:"required,min=10,max=2000"`
	Rating       int                   `json:"rating" binding:"required,min=1,max=5"`
	Plan         subscription.PlanTier `json:"plan" binding:"omitempty,plantier"`
}

type ListFilters struct {
	ApprovedOnly bool
	Limit        int
}

type Repository interface {
	Create(ctx context.Context, t *Testimonial) error
	List(ctx context.Context, filters ListFilters) ([]Testimonial, error)
	Approve(ctx context.Context, id int64) (*Testimonial, error)
	Delete(ctx context.Context, id int64) error
}
