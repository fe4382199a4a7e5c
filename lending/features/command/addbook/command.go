package addbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "AddBook"
)

// Command represents the intent to add a book to the catalog.
type Command struct {
	BookID      uuid.UUID
	Details     core.BookDetails
	TotalCopies int
	OccurredAt  core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID uuid.UUID, details core.BookDetails, totalCopies int, occurredAt time.Time) Command {
	return Command{
		BookID:      bookID,
		Details:     details,
		TotalCopies: totalCopies,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
