package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "BorrowBook"
)

// Command represents the intent of a user to borrow one copy of a book.
// LoanID is generated once by the caller so that retries stay idempotent.
type Command struct {
	LoanID     uuid.UUID
	BookID     uuid.UUID
	UserID     uuid.UUID
	Role       core.Role
	Terms      core.LoanTerms
	OccurredAt core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(
	loanID uuid.UUID,
	bookID uuid.UUID,
	userID uuid.UUID,
	role core.Role,
	terms core.LoanTerms,
	occurredAt time.Time,
) Command {

	return Command{
		LoanID:     loanID,
		BookID:     bookID,
		UserID:     userID,
		Role:       role,
		Terms:      terms,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
