package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// LoanTerms are the role-dependent values baked into a BookBorrowed event.
type LoanTerms struct {
	PeriodDays    int
	DailyFineRate decimal.Decimal
}

// DueAt adds the loan period in calendar days.
func (t LoanTerms) DueAt(borrowedAt time.Time) time.Time {
	return borrowedAt.AddDate(0, 0, t.PeriodDays)
}

// DaysOverdue counts whole elapsed days after the due instant, 0 if ref is not after due.
func DaysOverdue(dueAt, ref time.Time) int {
	if !ref.After(dueAt) {
		return 0
	}

	return int(ref.Sub(dueAt) / day)
}

// FineFor is dailyRate × DaysOverdue(dueAt, ref).
func FineFor(dueAt, ref time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(DaysOverdue(dueAt, ref))))
}
