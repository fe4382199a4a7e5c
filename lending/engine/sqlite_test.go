package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/engine"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_Engine_OnSQLite_BorrowReturnAndReports(t *testing.T) {
	// arrange
	ctx := context.Background()
	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqliteengine.CreateSchema(ctx, db, "events"))

	store, err := sqliteengine.NewEventStore(db)
	require.NoError(t, err)
	e, clock := givenEngine(t, store)

	bookID, err := e.AddBook(ctx, engine.NewBook{
		Details:     BookDetails("978-0-13-468599-1", "The Go Programming Language"),
		TotalCopies: 2,
	})
	require.NoError(t, err)
	student := GivenUniqueID(t)

	// act
	loanID, err := e.Borrow(ctx, student, bookID, core.RoleStudent)
	require.NoError(t, err)
	_, err = e.Borrow(ctx, student, bookID, core.RoleStudent)
	assert.ErrorIs(t, err, core.ErrAlreadyBorrowed)

	clock.AdvanceDays(9)
	overdue, err := e.OverdueLoans(ctx, clock.Now())
	require.NoError(t, err)

	receipt, err := e.Return(ctx, loanID, student)
	require.NoError(t, err)

	// assert
	require.Len(t, overdue.Loans, 1)
	assert.Equal(t, "The Go Programming Language", overdue.Loans[0].Title)
	assert.Equal(t, "10", receipt.Fine.String())

	fine, err := e.ComputeFine(ctx, loanID, clock.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "10", fine.String())

	all, err := e.ListAllLoans(ctx, student)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Returned)

	stats, err := e.LibraryStats(ctx, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBooks)
	assert.Equal(t, 2, stats.AvailableCopies)
	assert.Equal(t, 0, stats.ActiveLoans)

	fines, err := e.OutstandingFines(ctx, student, clock.Now())
	require.NoError(t, err)
	assert.Equal(t, "10", fines.Total.String())

	found, err := e.SearchCatalog(ctx, "go programming", "")
	require.NoError(t, err)
	assert.Equal(t, 1, found.Count)

	require.NoError(t, e.RemoveBook(ctx, bookID))
	book, err := e.GetBook(ctx, bookID)
	require.NoError(t, err)
	assert.True(t, book.Removed)
}
