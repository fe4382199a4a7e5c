package activeloans

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectActiveLoans implements the query logic for the open loans of a user.
//
// Query Logic:
//
//	INCLUDES: loans of the user without a BookReturned
//	EXCLUDES: returned loans, loans of other users
//	ORDER: borrow instant descending
func ProjectActiveLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) ActiveLoans {
	userID := query.UserID.String()
	loans := make([]core.Loan, 0)

	for _, loan := range core.ProjectLoans(history) {
		if loan.UserID == userID && loan.IsActive() {
			loans = append(loans, loan)
		}
	}

	core.SortNewestBorrowFirst(loans)

	return ActiveLoans{
		UserID:         userID,
		Loans:          loans,
		Count:          len(loans),
		SequenceNumber: maxSequenceNumber,
	}
}

func BuildEventFilter(userID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("UserID", userID.String())).
		Finalize()
}
