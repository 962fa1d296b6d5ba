package subscription

import "math"

// WeeksPerMonth is the fixed multiplier used to turn a weekly selection into a
// monthly price. It is a business constant, not a calendar value.
const WeeksPerMonth = 4.3

var unitPrices = map[PlanTier]int64{
	PlanDiet:    30000,
	PlanProtein: 40000,
	PlanRoyal:   60000,
}

// UnitPrice returns the per-meal price of a tier and false for unknown tiers.
func UnitPrice(plan PlanTier) (int64, bool) {
	p, ok := unitPrices[plan]
	return p, ok
}

// ComputeTotalPrice derives the monthly price of a selection. Incomplete
// selections (unknown plan, no meal types or no delivery days) price at 0.
func ComputeTotalPrice(plan PlanTier, mealTypes []MealType, deliveryDays []DeliveryDay) int64 {
	unit, ok := UnitPrice(plan)
	if !ok {
		return 0
	}

	meals := len(UniqueMealTypes(mealTypes))
	days := len(UniqueDeliveryDays(deliveryDays))
	if meals == 0 || days == 0 {
		return 0
	}

	return int64(math.Round(float64(unit) * float64(meals) * float64(days) * WeeksPerMonth))
}

// UniqueMealTypes drops duplicates while keeping first-seen order.
func UniqueMealTypes(in []MealType) []MealType {
	seen := make(map[MealType]struct{}, len(in))
	out := make([]MealType, 0, len(in))
	for _, m := range in {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// UniqueDeliveryDays drops duplicates while keeping first-seen order.
func UniqueDeliveryDays(in []DeliveryDay) []DeliveryDay {
	seen := make(map[DeliveryDay]struct{}, len(in))
	out := make([]DeliveryDay, 0, len(in))
	for _, d := range in {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// Reprice recomputes TotalPrice from the current selections.
func (s *Subscription) Reprice() {
	s.TotalPrice = ComputeTotalPrice(s.Plan, s.MealTypes, s.DeliveryDays)
}
