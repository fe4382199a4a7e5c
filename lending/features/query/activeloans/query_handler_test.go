package activeloans_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/query/activeloans"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_QueryHandler_Handle_ReturnsActiveLoansOfTheUser(t *testing.T) {
	// arrange
	store := GivenEventStore(t)
	userID := GivenUniqueID(t)
	bookID := GivenUniqueID(t)
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, userID, core.RoleTeacher, Day(1))
	GivenHistory(t, store, BookAdded(bookID, "isbn-1", "Title", 1, Day(0)), borrowed)
	handler := activeloans.NewQueryHandler(store)

	// act
	result, err := handler.Handle(context.Background(), activeloans.BuildQuery(userID))

	// assert
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, borrowed.LoanID, result.Loans[0].LoanID)
	assert.Equal(t, Day(15), result.Loans[0].DueAt)
}
