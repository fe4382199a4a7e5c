package returnbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "ReturnBook"
)

// Command represents the intent of a user to return a borrowed copy.
// UserID is the requesting user, it must own the loan.
type Command struct {
	LoanID     uuid.UUID
	UserID     uuid.UUID
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(loanID uuid.UUID, userID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
