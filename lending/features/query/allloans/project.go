package allloans

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectLoansOfUser returns every loan of the user, newest borrow first.
func ProjectLoansOfUser(history core.DomainEvents, query Query, maxSequenceNumber uint) LoansOfUser {
	userID := query.UserID.String()
	loans := make([]core.Loan, 0)

	for _, loan := range core.ProjectLoans(history) {
		if loan.UserID == userID {
			loans = append(loans, loan)
		}
	}

	core.SortNewestBorrowFirst(loans)

	return LoansOfUser{
		UserID:         userID,
		Loans:          loans,
		Count:          len(loans),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the loan events of the user.
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
