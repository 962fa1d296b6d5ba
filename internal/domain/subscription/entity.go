// internal/domain/subscription/entity.go
package subscription

import (
	"time"
)

type PlanTier string

const (
	PlanDiet    PlanTier = "diet"
	PlanProtein PlanTier = "protein"
	PlanRoyal   PlanTier = "royal"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

type DeliveryDay string

const (
	Monday    DeliveryDay = "monday"
	Tuesday   DeliveryDay = "tuesday"
	Wednesday DeliveryDay = "wednesday"
	Thursday  DeliveryDay = "thursday"
	Friday    DeliveryDay = "friday"
	Saturday  DeliveryDay = "saturday"
	Sunday    DeliveryDay = "sunday"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusPaused    SubscriptionStatus = "paused"
	StatusCancelled SubscriptionStatus = "cancelled"
)

var (
	PlanTiers    = []PlanTier{PlanDiet, PlanProtein, PlanRoyal}
	MealTypes    = []MealType{MealBreakfast, MealLunch, MealDinner}
	DeliveryDays = []DeliveryDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
)

func (p PlanTier) IsValid() bool {
	for _, t := range PlanTiers {
		if p == t {
			return true
		}
	}
	return false
}

func (m MealType) IsValid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

func (d DeliveryDay) IsValid() bool {
	for _, t := range DeliveryDays {
		if d == t {
			return true
		}
	}
	return false
}

func (s SubscriptionStatus) IsValid() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCancelled
}

// PausePeriod is one scheduled or elapsed delivery suspension. Entries are
// appended and never rewritten, except that reactivation drops the one in effect.
type PausePeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contains reports whether t falls inside the period, both ends inclusive.
func (p PausePeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// Overlaps reports whether p intersects other.
func (p PausePeriod) Overlaps(other PausePeriod) bool {
	return other.Contains(p.StartDate) ||
		other.Contains(p.EndDate) ||
		(!p.StartDate.After(other.StartDate) && !p.EndDate.Before(other.EndDate))
}

type Subscription struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	UserID    int64  `json:"userId"`

	// Contact captured on the order form
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`

	// Selections
	Plan         PlanTier      `json:"plan"`
	MealTypes    []MealType    `json:"mealTypes"`
	DeliveryDays []DeliveryDay `json:"deliveryDays"`
	Allergies    string        `json:"allergies,omitempty"`

	// Derived from the selections, see Reprice
	TotalPrice int64 `json:"totalPrice"`

	// Lifecycle
	Status             SubscriptionStatus `json:"status"`
	PausePeriods       []PausePeriod      `json:"pausePeriods"`
	CancellationDate   *time.Time         `json:"cancellationDate,omitempty"`
	CancellationReason string             `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SubscriptionStats struct {
	TotalSubscriptions      int64 `json:"totalSubscriptions"`
	ActiveSubscriptions     int64 `json:"activeSubscriptions"`
	PausedSubscriptions     int64 `json:"pausedSubscriptions"`
	CancelledSubscriptions  int64 `json:"cancelledSubscriptions"`
	NewSubscriptions        int64 `json:"newSubscriptions"`
	MonthlyRecurringRevenue int64 `json:"monthlyRecurringRevenue"`
}
