package core

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the borrow record derived from BookBorrowed and BookReturned.
type Loan struct {
	LoanID        LoanIDString
	BookID        BookIDString
	UserID        UserIDString
	Role          Role
	BorrowedAt    time.Time
	DueAt         time.Time
	DailyFineRate decimal.Decimal
	Returned      bool
	ReturnedAt    time.Time // zero while active
	Fine          decimal.Decimal
}

// IsActive reports whether the loan is not returned yet.
func (l Loan) IsActive() bool {
	return !l.Returned
}

// IsOverdue is only true for active loans.
func (l Loan) IsOverdue(asOf time.Time) bool {
	return l.IsActive() && l.DueAt.Before(asOf)
}

// FineAsOf recomputes the fine of an active loan and reports the frozen fine of a returned one.
func (l Loan) FineAsOf(asOf time.Time) decimal.Decimal {
	if l.Returned {
		return l.Fine
	}

	return FineFor(l.DueAt, asOf, l.DailyFineRate)
}

// DaysOverdueAsOf counts up to asOf while active and up to the return instant once returned.
func (l Loan) DaysOverdueAsOf(asOf time.Time) int {
	if l.Returned {
		return DaysOverdue(l.DueAt, l.ReturnedAt)
	}

	return DaysOverdue(l.DueAt, asOf)
}

// ProjectLoans folds the history into loans in borrow order.
// A BookReturned without a matching BookBorrowed is ignored.
func ProjectLoans(history DomainEvents) []Loan {
	loans := make([]Loan, 0)
	index := make(map[LoanIDString]int)

	for _, event := range history {
		switch e := event.(type) {
		case BookBorrowed:
			if _, exists := index[e.LoanID]; exists {
				continue
			}

			index[e.LoanID] = len(loans)
			loans = append(loans, Loan{
				LoanID:        e.LoanID,
				BookID:        e.BookID,
				UserID:        e.UserID,
				Role:          e.Role,
				BorrowedAt:    e.OccurredAt,
				DueAt:         e.DueAt,
				DailyFineRate: e.DailyFineRate,
				Fine:          decimal.Zero,
			})

		case BookReturned:
			i, exists := index[e.LoanID]
			if !exists || loans[i].Returned {
				continue
			}

			loans[i].Returned = true
			loans[i].ReturnedAt = e.OccurredAt
			loans[i].Fine = e.Fine
		}
	}

	return loans
}

// FindLoan returns the loan with the given ID from the history.
func FindLoan(history DomainEvents, loanID LoanIDString) (Loan, bool) {
	for _, loan := range ProjectLoans(history) {
		if loan.LoanID == loanID {
			return loan, true
		}
	}

	return Loan{}, false
}

// SortNewestBorrowFirst orders by borrow instant descending, LoanID descending on ties.
func SortNewestBorrowFirst(loans []Loan) {
	slices.SortStableFunc(loans, func(a, b Loan) int {
		if c := b.BorrowedAt.Compare(a.BorrowedAt); c != 0 {
			return c
		}

		return strings.Compare(b.LoanID, a.LoanID)
	})
}
