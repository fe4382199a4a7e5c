package outstandingfines

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectOutstandingFines lists the user's loans with a fine greater than zero, newest borrow first.
func ProjectOutstandingFines(history core.DomainEvents, query Query, maxSequenceNumber uint) OutstandingFines {
	userID := query.UserID.String()

	loans := make([]core.Loan, 0)
	for _, loan := range core.ProjectLoans(history) {
		if loan.UserID == userID {
			loans = append(loans, loan)
		}
	}

	core.SortNewestBorrowFirst(loans)

	lines := make([]FineLine, 0)
	total := decimal.Zero

	for _, loan := range loans {
		fine := loan.FineAsOf(query.AsOf)
		if !fine.IsPositive() {
			continue
		}

		total = total.Add(fine)
		lines = append(lines, FineLine{
			LoanID:      loan.LoanID,
			BookID:      loan.BookID,
			DueAt:       loan.DueAt,
			Returned:    loan.Returned,
			DaysOverdue: loan.DaysOverdueAsOf(query.AsOf),
			Fine:        fine,
		})
	}

	return OutstandingFines{
		UserID:         userID,
		AsOf:           query.AsOf,
		Lines:          lines,
		Total:          total,
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
