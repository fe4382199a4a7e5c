package core

import (
	"time"

	"github.com/google/uuid"
)

const BookCopiesChangedEventType = "BookCopiesChanged"

// BookCopiesChanged sets the total number of copies, e.g. after buying or losing copies.
type BookCopiesChanged struct {
	BookID      BookIDString
	TotalCopies int
	OccurredAt  OccurredAt
}

func BuildBookCopiesChanged(bookID uuid.UUID, totalCopies int, occurredAt time.Time) BookCopiesChanged {
	return BookCopiesChanged{
		BookID:      bookID.String(),
		TotalCopies: totalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BookCopiesChanged) EventType() string {
	return BookCopiesChangedEventType
}

func (e BookCopiesChanged) HasOccurredAt() time.Time {
	return e.OccurredAt
}
