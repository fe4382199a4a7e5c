package changebookcopies

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "ChangeBookCopies"
)

type Command struct {
	BookID      uuid.UUID
	TotalCopies int
	OccurredAt  core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(bookID uuid.UUID, totalCopies int, occurredAt time.Time) Command {
	return Command{
		BookID:      bookID,
		TotalCopies: totalCopies,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
