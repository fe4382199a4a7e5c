package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

func Test_FineFor(t *testing.T) {
	dueAt := time.Unix(0, 0).UTC()
	rate := decimal.NewFromInt(5)

	testCases := []struct {
		name         string
		ref          time.Time
		expectedDays int
		expectedFine string
	}{
		{"before due", dueAt.Add(-time.Hour), 0, "0"},
		{"exactly at due", dueAt, 0, "0"},
		{"less than one day late", dueAt.Add(23*time.Hour + 59*time.Minute), 0, "0"},
		{"exactly one day late", dueAt.Add(24 * time.Hour), 1, "5"},
		{"three and a half days late", dueAt.Add(84 * time.Hour), 3, "15"},
		{"ten days late", dueAt.AddDate(0, 0, 10), 10, "50"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			days := core.DaysOverdue(dueAt, tc.ref)
			fine := core.FineFor(dueAt, tc.ref, rate)

			// assert
			assert.Equal(t, tc.expectedDays, days)
			assert.True(t, decimal.RequireFromString(tc.expectedFine).Equal(fine), "fine was %s", fine)
		})
	}
}

func Test_FineFor_IsMonotonicInReferenceInstant(t *testing.T) {
	// arrange
	dueAt := time.Unix(0, 0).UTC()
	rate := decimal.RequireFromString("0.25")
	previous := decimal.Zero

	// act + assert
	for hours := -48; hours <= 24*30; hours += 7 {
		fine := core.FineFor(dueAt, dueAt.Add(time.Duration(hours)*time.Hour), rate)
		assert.True(t, fine.GreaterThanOrEqual(previous), "fine decreased at %dh", hours)
		previous = fine
	}
}

func Test_LoanTerms_DueAt_AddsCalendarDays(t *testing.T) {
	// arrange
	terms := core.LoanTerms{PeriodDays: 7, DailyFineRate: decimal.NewFromInt(5)}
	borrowedAt := time.Date(2025, 3, 27, 10, 30, 0, 0, time.UTC)

	// act
	dueAt := terms.DueAt(borrowedAt)

	// assert
	assert.Equal(t, time.Date(2025, 4, 3, 10, 30, 0, 0, time.UTC), dueAt)
}
