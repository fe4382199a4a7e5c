package removebook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the book can be removed.
//
// Business Rules:
//
//	GIVEN: the event history of one book
//	WHEN: RemoveBook is received
//	THEN: BookRemovedFromCatalog is generated
//	ERROR: ErrBookNotFound if the book was never added
//	ERROR: ErrBookInUse if any loan of the book is active
//	IDEMPOTENCY: the book is already removed
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	book, found := core.ProjectBook(history, command.BookID.String())
	if !found {
		return core.RejectedDecision(core.ErrBookNotFound)
	}

	if book.Removed {
		return core.IdempotentDecision()
	}

	if book.ActiveLoans > 0 {
		return core.RejectedDecision(fmt.Errorf("%w: %d active loans", core.ErrBookInUse, book.ActiveLoans))
	}

	return core.SuccessDecision(core.BuildBookRemovedFromCatalog(command.BookID, command.OccurredAt))
}

func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
