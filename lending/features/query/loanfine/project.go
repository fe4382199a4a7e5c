package loanfine

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectLoanFine returns false if the loan does not exist.
func ProjectLoanFine(history core.DomainEvents, query Query, maxSequenceNumber uint) (LoanFine, bool) {
	loan, found := core.FindLoan(history, query.LoanID.String())
	if !found {
		return LoanFine{}, false
	}

	return LoanFine{
		LoanID:         loan.LoanID,
		UserID:         loan.UserID,
		DueAt:          loan.DueAt,
		Returned:       loan.Returned,
		DaysOverdue:    loan.DaysOverdueAsOf(query.AsOf),
		Fine:           loan.FineAsOf(query.AsOf),
		SequenceNumber: maxSequenceNumber,
	}, true
}

func BuildEventFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}
