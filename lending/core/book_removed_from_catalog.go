package core

import (
	"time"

	"github.com/google/uuid"
)

const BookRemovedFromCatalogEventType = "BookRemovedFromCatalog"

// BookRemovedFromCatalog is a soft delete, the book stays resolvable for its loan history.
type BookRemovedFromCatalog struct {
	BookID     BookIDString
	OccurredAt OccurredAt
}

func BuildBookRemovedFromCatalog(bookID uuid.UUID, occurredAt time.Time) BookRemovedFromCatalog {
	return BookRemovedFromCatalog{
		BookID:     bookID.String(),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e BookRemovedFromCatalog) EventType() string {
	return BookRemovedFromCatalogEventType
}

func (e BookRemovedFromCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
