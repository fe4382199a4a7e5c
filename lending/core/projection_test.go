package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

var studentTerms = core.LoanTerms{PeriodDays: 7, DailyFineRate: decimal.NewFromInt(5)}

func Test_ProjectCatalog_DerivesCopyCounts(t *testing.T) {
	// arrange
	now := time.Unix(0, 0).UTC()
	bookID := uuid.New()
	otherBookID := uuid.New()
	userID := uuid.New()
	loanA := uuid.New()
	loanB := uuid.New()

	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(bookID, core.BookDetails{ISBN: "111", Title: "Dune"}, 2, now),
		core.BuildBookAddedToCatalog(otherBookID, core.BookDetails{ISBN: "222", Title: "Emma"}, 1, now),
		core.BuildBookBorrowed(loanA, bookID, userID, core.RoleStudent, studentTerms, now.Add(time.Hour)),
		core.BuildBookBorrowed(loanB, bookID, uuid.New(), core.RoleStudent, studentTerms, now.Add(2*time.Hour)),
		core.BuildBookCopiesChanged(bookID, 3, now.Add(3*time.Hour)),
		core.BookReturned{LoanID: loanA.String(), BookID: bookID.String(), Fine: decimal.Zero, OccurredAt: now.Add(4 * time.Hour)},
		core.BuildBookRemovedFromCatalog(otherBookID, now.Add(5*time.Hour)),
	}

	// act
	books := core.ProjectCatalog(history)

	// assert
	require.Len(t, books, 2)
	assert.Equal(t, 3, books[0].TotalCopies)
	assert.Equal(t, 1, books[0].ActiveLoans)
	assert.Equal(t, 2, books[0].AvailableCopies())
	assert.True(t, books[0].IsConsistent())
	assert.False(t, books[0].Removed)
	assert.Equal(t, "Dune", books[0].Title)

	assert.True(t, books[1].Removed)
	assert.Equal(t, 1, books[1].AvailableCopies())
}

func Test_ProjectCatalog_IgnoresDuplicateAndUnknownLoanEvents(t *testing.T) {
	// arrange
	now := time.Unix(0, 0).UTC()
	bookID := uuid.New()
	loanID := uuid.New()
	borrowed := core.BuildBookBorrowed(loanID, bookID, uuid.New(), core.RoleTeacher, studentTerms, now)

	history := core.DomainEvents{
		core.BuildBookAddedToCatalog(bookID, core.BookDetails{ISBN: "111"}, 1, now),
		borrowed,
		borrowed,
		core.BookReturned{LoanID: uuid.NewString(), BookID: bookID.String(), OccurredAt: now},
	}

	// act
	book, found := core.ProjectBook(history, bookID.String())

	// assert
	require.True(t, found)
	assert.Equal(t, 1, book.ActiveLoans)
	assert.Equal(t, 0, book.AvailableCopies())
}

func Test_ProjectBook_NotFound_WhenNeverAdded(t *testing.T) {
	// act
	_, found := core.ProjectBook(core.DomainEvents{}, uuid.NewString())

	// assert
	assert.False(t, found)
}

func Test_Book_IsConsistent_False_WhenMoreActiveLoansThanCopies(t *testing.T) {
	book := core.Book{TotalCopies: 1, ActiveLoans: 2}

	assert.False(t, book.IsConsistent())
	assert.Equal(t, -1, book.AvailableCopies())
}

func Test_ProjectLoans_TracksReturnAndFrozenFine(t *testing.T) {
	// arrange
	now := time.Unix(0, 0).UTC()
	bookID := uuid.New()
	userID := uuid.New()
	loanID := uuid.New()

	borrowed := core.BuildBookBorrowed(loanID, bookID, userID, core.RoleStudent, studentTerms, now)
	loanBeforeReturn, _ := core.FindLoan(core.DomainEvents{borrowed}, loanID.String())
	returned := core.BuildBookReturned(loanBeforeReturn, now.AddDate(0, 0, 10))

	// act
	loans := core.ProjectLoans(core.DomainEvents{borrowed, returned})

	// assert
	require.Len(t, loans, 1)
	loan := loans[0]
	assert.True(t, loan.Returned)
	assert.False(t, loan.IsActive())
	assert.Equal(t, now.AddDate(0, 0, 7), loan.DueAt)
	assert.Equal(t, now.AddDate(0, 0, 10), loan.ReturnedAt)
	assert.True(t, decimal.NewFromInt(15).Equal(loan.Fine), "fine was %s", loan.Fine)
	assert.Equal(t, 3, loan.DaysOverdueAsOf(now.AddDate(1, 0, 0)))

	// the frozen fine does not grow any more
	assert.True(t, decimal.NewFromInt(15).Equal(loan.FineAsOf(now.AddDate(1, 0, 0))))
	assert.False(t, loan.IsOverdue(now.AddDate(1, 0, 0)))
}

func Test_Loan_FineAsOf_Recomputes_WhenActive(t *testing.T) {
	// arrange
	now := time.Unix(0, 0).UTC()
	borrowed := core.BuildBookBorrowed(uuid.New(), uuid.New(), uuid.New(), core.RoleStudent, studentTerms, now)
	loans := core.ProjectLoans(core.DomainEvents{borrowed})
	require.Len(t, loans, 1)

	// act + assert
	assert.True(t, loans[0].FineAsOf(now.AddDate(0, 0, 7)).IsZero())
	assert.False(t, loans[0].IsOverdue(now.AddDate(0, 0, 7)))
	assert.True(t, decimal.NewFromInt(10).Equal(loans[0].FineAsOf(now.AddDate(0, 0, 9))))
	assert.True(t, loans[0].IsOverdue(now.AddDate(0, 0, 9)))
}

func Test_SortNewestBorrowFirst(t *testing.T) {
	// arrange
	now := time.Unix(0, 0).UTC()
	loans := []core.Loan{
		{LoanID: "a", BorrowedAt: now},
		{LoanID: "c", BorrowedAt: now.Add(time.Hour)},
		{LoanID: "b", BorrowedAt: now},
	}

	// act
	core.SortNewestBorrowFirst(loans)

	// assert
	assert.Equal(t, []string{"c", "b", "a"}, []string{loans[0].LoanID, loans[1].LoanID, loans[2].LoanID})
}
