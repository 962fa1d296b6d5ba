package subscription

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 0, 0, 0, 0, time.UTC)
}

func newActiveSubscription() *Subscription {
	sub := &Subscription{
		Plan:         PlanDiet,
		MealTypes:    []MealType{MealBreakfast, MealLunch},
		DeliveryDays: []DeliveryDay{Monday, Wednesday, Friday},
		Status:       StatusActive,
	}
	sub.Reprice()
	return sub
}

func TestPause_Validation(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		now     time.Time
		wantErr error
	}{
		{
			name:    "end equal to start",
			start:   day(time.November, 1),
			end:     day(time.November, 1),
			now:     testNow,
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "end before start",
			start:   day(time.November, 10),
			end:     day(time.November, 1),
			now:     testNow,
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "start in the past",
			start:   day(time.October, 15),
			end:     day(time.October, 20),
			now:     testNow,
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "longer than ninety days",
			start:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			end:     time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC),
			now:     time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
			wantErr: ErrInvalidDateRange,
		},
		{
			name:  "exactly ninety days",
			start: day(time.November, 1),
			end:   day(time.November, 1).AddDate(0, 0, MaxPauseDays),
			now:   testNow,
		},
		{
			name:  "starting earlier today",
			start: day(time.October, 16),
			end:   day(time.October, 20),
			now:   testNow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newActiveSubscription()
			err := sub.Pause(tt.start, tt.end, "holiday", tt.now)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Empty(t, sub.PausePeriods)
				assert.Equal(t, StatusActive, sub.Status)
				return
			}
			require.NoError(t, err)
			assert.Len(t, sub.PausePeriods, 1)
		})
	}
}

func TestPause_NinetyCalendarDaysAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	now := time.Date(2025, time.August, 20, 9, 0, 0, 0, berlin)
	start := time.Date(2025, time.September, 1, 0, 0, 0, 0, berlin)

	// the span crosses the October clock change and is 2161 wall-clock hours
	end := start.AddDate(0, 0, MaxPauseDays)
	require.Greater(t, end.Sub(start), MaxPauseDays*24*time.Hour)

	sub := newActiveSubscription()
	require.NoError(t, sub.Pause(start, end, "sabbatical", now))
	assert.Len(t, sub.PausePeriods, 1)

	sub = newActiveSubscription()
	err = sub.Pause(start, end.AddDate(0, 0, 1), "sabbatical", now)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestPause_ImmediateVersusScheduled(t *testing.T) {
	t.Run("already started pauses now", func(t *testing.T) {
		sub := newActiveSubscription()
		require.NoError(t, sub.Pause(testNow, day(time.October, 25), "travel", testNow))

		assert.Equal(t, StatusPaused, sub.Status)
		assert.True(t, sub.IsCurrentlyPaused(testNow))
	})

	t.Run("future start stays active", func(t *testing.T) {
		sub := newActiveSubscription()
		require.NoError(t, sub.Pause(day(time.November, 1), day(time.November, 8), "travel", testNow))

		assert.Equal(t, StatusActive, sub.Status)
		require.Len(t, sub.PausePeriods, 1)
		assert.Equal(t, "travel", sub.PausePeriods[0].Reason)
		assert.Equal(t, testNow, sub.PausePeriods[0].CreatedAt)
		assert.False(t, sub.IsCurrentlyPaused(day(time.November, 2)))
	})
}

func TestPause_Overlap(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		overlap bool
	}{
		{"start inside existing", day(time.November, 5), day(time.November, 15), true},
		{"end inside existing", day(time.October, 28), day(time.November, 3), true},
		{"contains existing", day(time.October, 30), day(time.November, 20), true},
		{"inside existing", day(time.November, 3), day(time.November, 4), true},
		{"touches existing end", day(time.November, 10), day(time.November, 12), true},
		{"after existing", day(time.November, 11), day(time.November, 20), false},
		{"before existing", day(time.October, 20), day(time.October, 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := newActiveSubscription()
			require.NoError(t, sub.Pause(day(time.November, 1), day(time.November, 10), "first", testNow))
			first := sub.PausePeriods[0]

			err := sub.Pause(tt.start, tt.end, "second", testNow)
			if tt.overlap {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrOverlappingPause)
				assert.Equal(t, []PausePeriod{first}, sub.PausePeriods)
				return
			}
			require.NoError(t, err)
			assert.Len(t, sub.PausePeriods, 2)
		})
	}
}

func TestPause_RejectedWhenNotActive(t *testing.T) {
	sub := newActiveSubscription()
	require.NoError(t, sub.Pause(testNow, day(time.October, 20), "", testNow))

	err := sub.Pause(day(time.November, 1), day(time.November, 5), "", testNow)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Len(t, sub.PausePeriods, 1)
}

func TestCancel_IsTerminal(t *testing.T) {
	sub := newActiveSubscription()
	require.NoError(t, sub.Cancel("  moving abroad ", testNow))

	assert.Equal(t, StatusCancelled, sub.Status)
	require.NotNil(t, sub.CancellationDate)
	assert.Equal(t, testNow, *sub.CancellationDate)
	assert.Equal(t, "moving abroad", sub.CancellationReason)

	later := testNow.Add(48 * time.Hour)

	assert.ErrorIs(t, sub.Pause(day(time.November, 1), day(time.November, 5), "", later), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.Reactivate(later), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.Cancel("again", later), ErrInvalidStateTransition)
	assert.ErrorIs(t, sub.ApplySelections(PlanRoyal, []MealType{MealDinner}, []DeliveryDay{Monday}), ErrInvalidStateTransition)

	assert.Equal(t, StatusCancelled, sub.Status)
	assert.Equal(t, testNow, *sub.CancellationDate)
	assert.Equal(t, "moving abroad", sub.CancellationReason)
	assert.Empty(t, sub.PausePeriods)
	assert.Equal(t, PlanDiet, sub.Plan)
}

func TestCancel_FromPaused(t *testing.T) {
	sub := newActiveSubscription()
	require.NoError(t, sub.Pause(testNow, day(time.October, 20), "", testNow))
	require.NoError(t, sub.Cancel("", testNow))
	assert.Equal(t, StatusCancelled, sub.Status)
}

func TestReactivate(t *testing.T) {
	t.Run("already active", func(t *testing.T) {
		sub := newActiveSubscription()
		assert.ErrorIs(t, sub.Reactivate(testNow), ErrInvalidStateTransition)
	})

	t.Run("only past pause is kept as history", func(t *testing.T) {
		past := PausePeriod{StartDate: day(time.September, 1), EndDate: day(time.September, 10), Reason: "trip"}
		sub := newActiveSubscription()
		sub.Status = StatusPaused
		sub.PausePeriods = []PausePeriod{past}

		require.NoError(t, sub.Reactivate(testNow))
		assert.Equal(t, StatusActive, sub.Status)
		assert.Equal(t, []PausePeriod{past}, sub.PausePeriods)
	})

	t.Run("current pause removed, others kept", func(t *testing.T) {
		past := PausePeriod{StartDate: day(time.September, 1), EndDate: day(time.September, 10)}
		current := PausePeriod{StartDate: day(time.October, 10), EndDate: day(time.October, 20)}
		future := PausePeriod{StartDate: day(time.November, 1), EndDate: day(time.November, 5)}
		sub := newActiveSubscription()
		sub.Status = StatusPaused
		sub.PausePeriods = []PausePeriod{past, current, future}

		require.NoError(t, sub.Reactivate(testNow))
		assert.Equal(t, StatusActive, sub.Status)
		assert.Equal(t, []PausePeriod{past, future}, sub.PausePeriods)
	})
}

func TestCurrentPausePeriod(t *testing.T) {
	current := PausePeriod{StartDate: day(time.October, 10), EndDate: day(time.October, 20)}
	sub := newActiveSubscription()
	sub.PausePeriods = []PausePeriod{current}

	// Scheduled but never applied: not paused yet.
	assert.Nil(t, sub.CurrentPausePeriod(testNow))
	assert.False(t, sub.IsCurrentlyPaused(testNow))

	sub.Status = StatusPaused
	got := sub.CurrentPausePeriod(testNow)
	require.NotNil(t, got)
	assert.Equal(t, current, *got)
	assert.True(t, sub.IsCurrentlyPaused(testNow))
	assert.False(t, sub.IsCurrentlyPaused(day(time.October, 21)))
}

func TestNextBillingDate(t *testing.T) {
	t.Run("active", func(t *testing.T) {
		sub := newActiveSubscription()
		next, ok := sub.NextBillingDate(testNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.November, 16, 10, 0, 0, 0, time.UTC), next)
	})

	t.Run("paused shifts by pause length", func(t *testing.T) {
		sub := newActiveSubscription()
		sub.Status = StatusPaused
		sub.PausePeriods = []PausePeriod{{StartDate: day(time.October, 10), EndDate: day(time.October, 20)}}

		next, ok := sub.NextBillingDate(testNow)
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.November, 26, 10, 0, 0, 0, time.UTC), next)
	})

	t.Run("cancelled", func(t *testing.T) {
		sub := newActiveSubscription()
		require.NoError(t, sub.Cancel("", testNow))
		_, ok := sub.NextBillingDate(testNow)
		assert.False(t, ok)
	})
}

func TestApplyDuePause(t *testing.T) {
	sub := newActiveSubscription()
	require.NoError(t, sub.Pause(day(time.October, 20), day(time.October, 25), "", testNow))

	assert.False(t, sub.ApplyDuePause(testNow))
	assert.Equal(t, StatusActive, sub.Status)

	assert.True(t, sub.ApplyDuePause(day(time.October, 21)))
	assert.Equal(t, StatusPaused, sub.Status)

	assert.False(t, sub.ApplyDuePause(day(time.October, 22)))
}

func TestApplySelections(t *testing.T) {
	sub := newActiveSubscription()

	err := sub.ApplySelections(PlanRoyal, nil, []DeliveryDay{Monday})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, PlanDiet, sub.Plan)
	assert.Equal(t, int64(774000), sub.TotalPrice)

	err = sub.ApplySelections(PlanRoyal, []MealType{MealDinner, MealDinner}, []DeliveryDay{Monday, Tuesday})
	require.NoError(t, err)
	assert.Equal(t, []MealType{MealDinner}, sub.MealTypes)
	assert.Equal(t, int64(516000), sub.TotalPrice)
}

func TestValidate(t *testing.T) {
	sub := newActiveSubscription()
	assert.NoError(t, sub.Validate())

	sub.DeliveryDays = []DeliveryDay{"someday"}
	var domainErr *Error
	require.ErrorAs(t, sub.Validate(), &domainErr)
	assert.Equal(t, KindInvalidConfiguration, domainErr.Kind)
}
