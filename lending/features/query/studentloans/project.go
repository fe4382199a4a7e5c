package studentloans

import (
	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectStudentLoans implements the student loan report.
//
// Query Logic:
//
//	INCLUDES: all loans borrowed with the student role, active and returned
//	EXCLUDES: loans of teachers and admins
//	ORDER: borrow instant descending, LoanID descending on ties
func ProjectStudentLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) StudentLoans {
	titles := make(map[core.BookIDString]string)
	for _, book := range core.ProjectCatalog(history) {
		titles[book.BookID] = book.Title
	}

	studentLoans := make([]core.Loan, 0)
	for _, loan := range core.ProjectLoans(history) {
		if loan.Role == core.RoleStudent {
			studentLoans = append(studentLoans, loan)
		}
	}

	core.SortNewestBorrowFirst(studentLoans)

	loans := make([]StudentLoan, 0, len(studentLoans))
	active := 0

	for _, loan := range studentLoans {
		if loan.IsActive() {
			active++
		}

		loans = append(loans, StudentLoan{
			LoanID:     loan.LoanID,
			BookID:     loan.BookID,
			Title:      titles[loan.BookID],
			UserID:     loan.UserID,
			BorrowedAt: loan.BorrowedAt,
			DueAt:      loan.DueAt,
			Returned:   loan.Returned,
			ReturnedAt: loan.ReturnedAt,
			Overdue:    loan.IsOverdue(query.AsOf),
			Fine:       loan.FineAsOf(query.AsOf),
		})
	}

	return StudentLoans{
		AsOf:           query.AsOf,
		Loans:          loans,
		Count:          len(loans),
		ActiveCount:    active,
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the book additions for the titles, student borrows and all returns.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		OrMatching().
		AnyEventTypeOf(core.BookBorrowedEventType).
		AndAnyPredicateOf(eventstore.P("Role", core.RoleStudent.String())).
		OrMatching().
		AnyEventTypeOf(core.BookReturnedEventType).
		Finalize()
}
