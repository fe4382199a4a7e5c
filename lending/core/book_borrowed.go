package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BookBorrowedEventType = "BookBorrowed"

// BookBorrowed opens a loan and takes one copy out of the available stock.
// DueAt and DailyFineRate are fixed at borrow time, OccurredAt is the borrow instant.
type BookBorrowed struct {
	LoanID        LoanIDString
	BookID        BookIDString
	UserID        UserIDString
	Role          Role
	DueAt         time.Time
	DailyFineRate decimal.Decimal
	OccurredAt    OccurredAt
}

func BuildBookBorrowed(
	loanID uuid.UUID,
	bookID uuid.UUID,
	userID uuid.UUID,
	role Role,
	terms LoanTerms,
	occurredAt time.Time,
) BookBorrowed {

	borrowedAt := ToOccurredAt(occurredAt)

	return BookBorrowed{
		LoanID:        loanID.String(),
		BookID:        bookID.String(),
		UserID:        userID.String(),
		Role:          role,
		DueAt:         terms.DueAt(borrowedAt),
		DailyFineRate: terms.DailyFineRate,
		OccurredAt:    borrowedAt,
	}
}

func (e BookBorrowed) EventType() string {
	return BookBorrowedEventType
}

func (e BookBorrowed) HasOccurredAt() time.Time {
	return e.OccurredAt
}
