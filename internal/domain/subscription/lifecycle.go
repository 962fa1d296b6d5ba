package subscription

import (
	"strings"
	"time"
)

// MaxPauseDays bounds a single pause request, counted in calendar days in
// the location of start.
const MaxPauseDays = 90

// Validate checks the selection invariants that must hold while a
// subscription is active or paused.
func (s *Subscription) Validate() error {
	return validateSelections(s.Plan, s.MealTypes, s.DeliveryDays)
}

func validateSelections(plan PlanTier, mealTypes []MealType, deliveryDays []DeliveryDay) error {
	if !plan.IsValid() {
		return newError(KindInvalidConfiguration, "unknown plan %q", plan)
	}
	if len(mealTypes) == 0 {
		return newError(KindInvalidConfiguration, "at least one meal type is required")
	}
	for _, m := range mealTypes {
		if !m.IsValid() {
			return newError(KindInvalidConfiguration, "unknown meal type %q", m)
		}
	}
	if len(deliveryDays) == 0 {
		return newError(KindInvalidConfiguration, "at least one delivery day is required")
	}
	for _, d := range deliveryDays {
		if !d.IsValid() {
			return newError(KindInvalidConfiguration, "unknown delivery day %q", d)
		}
	}
	return nil
}

// ApplySelections replaces plan, meal types and delivery days, then reprices.
// Nothing is changed when the new selection is rejected.
func (s *Subscription) ApplySelections(plan PlanTier, mealTypes []MealType, deliveryDays []DeliveryDay) error {
	if s.Status == StatusCancelled {
		return newError(KindInvalidStateTransition, "cannot change a cancelled subscription")
	}

	mealTypes = UniqueMealTypes(mealTypes)
	deliveryDays = UniqueDeliveryDays(deliveryDays)
	if err := validateSelections(plan, mealTypes, deliveryDays); err != nil {
		return err
	}

	s.Plan = plan
	s.MealTypes = mealTypes
	s.DeliveryDays = deliveryDays
	s.Reprice()
	return nil
}

// Pause schedules a delivery suspension. The period is always recorded; the
// status only flips to paused when the period has already started.
func (s *Subscription) Pause(start, end time.Time, reason string, now time.Time) error {
	switch s.Status {
	case StatusCancelled:
		return newError(KindInvalidStateTransition, "cannot pause a cancelled subscription")
	case StatusPaused:
		return newError(KindInvalidStateTransition, "subscription is already paused")
	}

	if !end.After(start) {
		return newError(KindInvalidDateRange, "end date must be after start date")
	}
	if startOfDay(start, now.Location()).Before(startOfDay(now, now.Location())) {
		return newError(KindInvalidDateRange, "start date cannot be in the past")
	}
	if end.After(start.AddDate(0, 0, MaxPauseDays)) {
		return newError(KindInvalidDateRange, "pause period cannot exceed 90 days")
	}

	candidate := PausePeriod{
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: now,
	}
	for _, existing := range s.PausePeriods {
		if candidate.Overlaps(existing) {
			return newError(KindOverlappingPause,
				"pause period overlaps an existing pause from %s to %s",
				existing.StartDate.Format(time.DateOnly), existing.EndDate.Format(time.DateOnly))
		}
	}

	s.PausePeriods = append(s.PausePeriods, candidate)
	if !start.After(now) {
		s.Status = StatusPaused
	}
	return nil
}

// Reactivate resumes a paused subscription, dropping the pause period in
// effect at now. Elapsed and future periods stay on record.
func (s *Subscription) Reactivate(now time.Time) error {
	switch s.Status {
	case StatusCancelled:
		return newError(KindInvalidStateTransition, "cannot reactivate a cancelled subscription")
	case StatusActive:
		return newError(KindInvalidStateTransition, "subscription is already active")
	}

	kept := make([]PausePeriod, 0, len(s.PausePeriods))
	for _, p := range s.PausePeriods {
		if p.Contains(now) {
			continue
		}
		kept = append(kept, p)
	}
	s.PausePeriods = kept
	s.Status = StatusActive
	return nil
}

// Cancel ends the subscription for good.
func (s *Subscription) Cancel(reason string, now time.Time) error {
	if s.Status == StatusCancelled {
		return newError(KindInvalidStateTransition, "subscription is already cancelled")
	}

	cancelledAt := now
	s.Status = StatusCancelled
	s.CancellationDate = &cancelledAt
	s.CancellationReason = strings.TrimSpace(reason)
	return nil
}

// ApplyDuePause flips an active subscription to paused when one of its
// scheduled periods has started. It reports whether the status changed.
func (s *Subscription) ApplyDuePause(now time.Time) bool {
	if s.Status != StatusActive {
		return false
	}
	for _, p := range s.PausePeriods {
		if p.Contains(now) {
			s.Status = StatusPaused
			return true
		}
	}
	return false
}

func (s *Subscription) IsCurrentlyPaused(now time.Time) bool {
	return s.CurrentPausePeriod(now) != nil
}

// CurrentPausePeriod returns the first period containing now while the
// subscription is paused, or nil.
func (s *Subscription) CurrentPausePeriod(now time.Time) *PausePeriod {
	if s.Status != StatusPaused {
		return nil
	}
	for i := range s.PausePeriods {
		if s.PausePeriods[i].Contains(now) {
			p := s.PausePeriods[i]
			return &p
		}
	}
	return nil
}

// NextBillingDate is one calendar month after now, pushed back by the length
// of the pause in effect. Cancelled subscriptions are never billed.
func (s *Subscription) NextBillingDate(now time.Time) (time.Time, bool) {
	if s.Status == StatusCancelled {
		return time.Time{}, false
	}

	next := now.AddDate(0, 1, 0)
	if p := s.CurrentPausePeriod(now); p != nil {
		next = next.Add(p.EndDate.Sub(p.StartDate))
	}
	return next, true
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
