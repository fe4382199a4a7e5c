package changebookcopies

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the total number of copies can be changed.
//
// Business Rules:
//
//	GIVEN: the event history of one book
//	WHEN: ChangeBookCopies is received
//	THEN: BookCopiesChanged is generated
//	ERROR: ErrInvalidCopies if the new total is negative or below the active loans
//	ERROR: ErrBookNotFound if the book was never added or is removed
//	IDEMPOTENCY: the total is already the requested one
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.TotalCopies < 0 {
		return core.RejectedDecision(fmt.Errorf("%w: %d", core.ErrInvalidCopies, command.TotalCopies))
	}

	book, found := core.ProjectBook(history, command.BookID.String())
	if !found || book.Removed {
		return core.RejectedDecision(core.ErrBookNotFound)
	}

	if command.TotalCopies < book.ActiveLoans {
		return core.RejectedDecision(fmt.Errorf(
			"%w: %d copies requested but %d are on loan", core.ErrInvalidCopies, command.TotalCopies, book.ActiveLoans,
		))
	}

	if command.TotalCopies == book.TotalCopies {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildBookCopiesChanged(command.BookID, command.TotalCopies, command.OccurredAt),
	)
}

// BuildEventFilter selects the consistency boundary of one book: every event carrying its BookID.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
