package overdueloans

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectOverdueLoans implements the overdue report.
//
// Query Logic:
//
//	INCLUDES: active loans with due < asOf
//	EXCLUDES: returned loans, loans not yet due
//	ORDER: due instant ascending (most overdue first), LoanID on ties
func ProjectOverdueLoans(history core.DomainEvents, query Query, maxSequenceNumber uint) OverdueLoans {
	titles := make(map[core.BookIDString]string)
	for _, book := range core.ProjectCatalog(history) {
		titles[book.BookID] = book.Title
	}

	loans := make([]OverdueLoan, 0)
	total := decimal.Zero

	for _, loan := range core.ProjectLoans(history) {
		if !loan.IsOverdue(query.AsOf) {
			continue
		}

		fine := loan.FineAsOf(query.AsOf)
		total = total.Add(fine)

		loans = append(loans, OverdueLoan{
			LoanID:      loan.LoanID,
			BookID:      loan.BookID,
			Title:       titles[loan.BookID],
			UserID:      loan.UserID,
			Role:        loan.Role,
			BorrowedAt:  loan.BorrowedAt,
			DueAt:       loan.DueAt,
			DaysOverdue: loan.DaysOverdueAsOf(query.AsOf),
			Fine:        fine,
		})
	}

	slices.SortFunc(loans, func(a, b OverdueLoan) int {
		if c := a.DueAt.Compare(b.DueAt); c != 0 {
			return c
		}

		return strings.Compare(a.LoanID, b.LoanID)
	})

	return OverdueLoans{
		AsOf:           query.AsOf,
		Loans:          loans,
		Count:          len(loans),
		TotalFines:     total,
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects all loan events plus the book additions for the titles.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
