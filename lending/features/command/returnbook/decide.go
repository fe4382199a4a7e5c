package returnbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the loan can be closed.
//
// Business Rules:
//
//	GIVEN: the event history of the loan's book
//	WHEN: ReturnBook is received
//	THEN: BookReturned is generated with the fine frozen at the return instant
//	ERROR: ErrLoanNotFound if the loan does not exist
//	ERROR: ErrUnauthorized if the loan belongs to another user
//	ERROR: ErrAlreadyReturned if the loan is closed
//	ERROR: ErrInvariantViolation if the book is missing or releasing the copy breaks 0 ≤ available ≤ total
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	loan, found := core.FindLoan(history, command.LoanID.String())
	if !found {
		return core.RejectedDecision(core.ErrLoanNotFound)
	}

	if loan.UserID != command.UserID.String() {
		return core.RejectedDecision(core.ErrUnauthorized)
	}

	if loan.Returned {
		return core.RejectedDecision(core.ErrAlreadyReturned)
	}

	book, bookFound := core.ProjectBook(history, loan.BookID)
	if !bookFound {
		return core.RejectedDecision(fmt.Errorf("%w: loan %s references unknown book %s",
			core.ErrInvariantViolation, loan.LoanID, loan.BookID))
	}

	if !book.IsConsistent() || book.AvailableCopies()+1 > book.TotalCopies {
		return core.RejectedDecision(fmt.Errorf("%w: releasing a copy of book %s with %d active loans for %d copies",
			core.ErrInvariantViolation, book.BookID, book.ActiveLoans, book.TotalCopies))
	}

	return core.SuccessDecision(core.BuildBookReturned(loan, command.OccurredAt))
}

// BuildLoanLookupFilter selects the BookBorrowed event of the loan.
func BuildLoanLookupFilter(loanID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookBorrowedEventType).
		AndAnyPredicateOf(eventstore.P("LoanID", loanID.String())).
		Finalize()
}

// BuildEventFilter selects the consistency boundary of the loan's book.
func BuildEventFilter(bookID core.BookIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID)).
		Finalize()
}
