package overdueloans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/query/overdueloans"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_QueryHandler_Handle_ReportsStoredOverdueLoans(t *testing.T) {
	// arrange
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleStudent, Day(0))
	GivenHistory(t, store, BookAdded(bookID, "isbn-1", "Title", 1, Day(0)), borrowed)
	handler := overdueloans.NewQueryHandler(store)

	// act
	result, err := handler.Handle(context.Background(), overdueloans.BuildQuery(Day(10)))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Loans, 1)
	assert.Equal(t, borrowed.LoanID, result.Loans[0].LoanID)
	assert.Equal(t, "15", result.Loans[0].Fine.String())
	assert.Equal(t, uint(2), result.SequenceNumber)
}
