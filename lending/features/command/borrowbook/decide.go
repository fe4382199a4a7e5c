package borrowbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

type state struct {
	book                  core.Book
	bookFound             bool
	loanExists            bool
	userHasActiveLoanHere bool
}

// Decide determines whether a copy of the book can be lent to the user.
//
// Business Rules:
//
//	GIVEN: the event history of one book
//	WHEN: BorrowBook is received
//	THEN: BookBorrowed is generated, due = borrow instant + loan period of the role
//	ERROR: ErrBookNotFound if the book was never added or is removed
//	ERROR: ErrAlreadyBorrowed if the user has an active loan of this book
//	ERROR: ErrInvariantViolation if the history shows more active loans than copies
//	ERROR: ErrOutOfStock if no copy is available
//	IDEMPOTENCY: a loan with the command's LoanID exists already
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	s := project(history, command)

	if s.loanExists {
		return core.IdempotentDecision()
	}

	if !s.bookFound || s.book.Removed {
		return core.RejectedDecision(core.ErrBookNotFound)
	}

	if s.userHasActiveLoanHere {
		return core.RejectedDecision(core.ErrAlreadyBorrowed)
	}

	if !s.book.IsConsistent() {
		return core.RejectedDecision(fmt.Errorf(
			"%w: book %s has %d active loans for %d copies",
			core.ErrInvariantViolation, s.book.BookID, s.book.ActiveLoans, s.book.TotalCopies,
		))
	}

	if s.book.AvailableCopies() == 0 {
		return core.RejectedDecision(core.ErrOutOfStock)
	}

	return core.SuccessDecision(
		core.BuildBookBorrowed(
			command.LoanID,
			command.BookID,
			command.UserID,
			command.Role,
			command.Terms,
			command.OccurredAt,
		),
	)
}

func project(history core.DomainEvents, command Command) state {
	s := state{}
	bookID := command.BookID.String()
	userID := command.UserID.String()
	loanID := command.LoanID.String()

	s.book, s.bookFound = core.ProjectBook(history, bookID)

	for _, loan := range core.ProjectLoans(history) {
		if loan.LoanID == loanID {
			s.loanExists = true
		}

		if loan.IsActive() && loan.UserID == userID && loan.BookID == bookID {
			s.userHasActiveLoanHere = true
		}
	}

	return s
}

// BuildEventFilter selects the consistency boundary of the book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
