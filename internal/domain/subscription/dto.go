// internal/domain/subscription/dto.go
package subscription

import (
	"fmt"
	"strings"
	"time"
)

type CreateSubscriptionRequest struct {
	FullName     string        `json:"fullName" binding:"required,max=255"`
	PhoneNumber  string        `json:"phoneNumber" binding:"required,max=32"`
	Plan         PlanTier      `json:"plan" binding:"required,plantier"`
	MealTypes    []MealType    `json:"mealTypes" binding:"required,min=1,dive,mealtype"`
	DeliveryDays []DeliveryDay `json:"deliveryDays" binding:"required,min=1,dive,weekday"`
	Allergies    string        `json:"allergies" binding:"max=1000"`
}

// UpdateSubscriptionRequest carries partial edits; nil fields are left alone.
type UpdateSubscriptionRequest struct {
	FullName     *string       `json:"fullName" binding:"omitempty,max=255"`
	PhoneNumber  *string       `json:"phoneNumber" binding:"omitempty,max=32"`
	Plan         *PlanTier     `json:"plan" binding:"omitempty,plantier"`
	MealTypes    []MealType    `json:"mealTypes" binding:"omitempty,dive,mealtype"`
	DeliveryDays []DeliveryDay `json:"deliveryDays" binding:"omitempty,dive,weekday"`
	Allergies    *string       `json:"allergies" binding:"omitempty,max=1000"`
}

// QuoteRequest previews a price without creating anything.
type QuoteRequest struct {
	Plan         PlanTier      `json:"plan"`
	MealTypes    []MealType    `json:"mealTypes"`
	DeliveryDays []DeliveryDay `json:"deliveryDays"`
}

type QuoteResponse struct {
	Plan           PlanTier `json:"plan"`
	MealCount      int      `json:"mealCount"`
	DayCount       int      `json:"dayCount"`
	TotalPrice     int64    `json:"totalPrice"`
	FormattedPrice string   `json:"formattedPrice"`
}

// PauseSubscriptionRequest accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
type PauseSubscriptionRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Reason    string `json:"reason" binding:"max=500"`
}

// Period parses both bounds; plain dates resolve to midnight in loc.
func (r *PauseSubscriptionRequest) Period(loc *time.Location) (time.Time, time.Time, error) {
	start, err := parseDate(r.StartDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := parseDate(r.EndDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate: %w", err)
	}
	return start, end, nil
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, value, loc)
}

type CancelSubscriptionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type SubscriptionListFilters struct {
	UserID    int64               `form:"-"`
	Status    *SubscriptionStatus `form:"status"`
	Plan      *PlanTier           `form:"plan"`
	Page      int                 `form:"page" binding:"omitempty,min=1"`
	PageSize  int                 `form:"pageSize" binding:"omitempty,min=1,max=100"`
	SortOrder string              `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

type StatsFilters struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// SubscriptionResponse is the wire form of a subscription.
type SubscriptionResponse struct {
	Subscription
	FormattedPrice string `json:"formattedPrice"`
}

type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"pageSize"`
	TotalPages    int                    `json:"totalPages"`
}

type BillingSummary struct {
	SubscriptionID     int64              `json:"subscriptionId"`
	Status             SubscriptionStatus `json:"status"`
	TotalPrice         int64              `json:"totalPrice"`
	FormattedPrice     string             `json:"formattedPrice"`
	NextBillingDate    *time.Time         `json:"nextBillingDate"`
	IsCurrentlyPaused  bool               `json:"isCurrentlyPaused"`
	CurrentPausePeriod *PausePeriod       `json:"currentPausePeriod"`
}

type ApplyScheduledPausesResponse struct {
	Checked int     `json:"checked"`
	Paused  int     `json:"paused"`
	IDs     []int64 `json:"ids"`
}
