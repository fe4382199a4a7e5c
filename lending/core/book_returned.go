package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const BookReturnedEventType = "BookReturned"

// BookReturned closes a loan, puts the copy back and freezes the fine.
type BookReturned struct {
	LoanID     LoanIDString
	BookID     BookIDString
	UserID     UserIDString
	Fine       decimal.Decimal
	OccurredAt OccurredAt
}

// BuildBookReturned computes the frozen fine from the loan's due instant and rate.
func BuildBookReturned(loan Loan, occurredAt time.Time) BookReturned {
	returnedAt := ToOccurredAt(occurredAt)

	return BookReturned{
		LoanID:     loan.LoanID,
		BookID:     loan.BookID,
		UserID:     loan.UserID,
		Fine:       FineFor(loan.DueAt, returnedAt, loan.DailyFineRate),
		OccurredAt: returnedAt,
	}
}

func (e BookReturned) EventType() string {
	return BookReturnedEventType
}

func (e BookReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
