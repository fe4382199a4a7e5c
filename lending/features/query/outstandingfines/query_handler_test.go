package outstandingfines_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/query/outstandingfines"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_QueryHandler_Handle_SumsLiveAndFrozenFines(t *testing.T) {
	// arrange
	store := GivenEventStore(t)
	userID := GivenUniqueID(t)
	returnedLate := BookBorrowed(GivenUniqueID(t), GivenUniqueID(t), userID, core.RoleStudent, Day(0))
	stillOut := BookBorrowed(GivenUniqueID(t), GivenUniqueID(t), userID, core.RoleStudent, Day(1))
	GivenHistory(t, store,
		returnedLate,
		BookReturned(returnedLate, Day(9)),
		stillOut,
		BookBorrowed(GivenUniqueID(t), GivenUniqueID(t), userID, core.RoleTeacher, Day(1)),
		BookBorrowed(GivenUniqueID(t), GivenUniqueID(t), GivenUniqueID(t), core.RoleStudent, Day(0)),
	)
	handler := outstandingfines.NewQueryHandler(store)

	// act
	result, err := handler.Handle(context.Background(), outstandingfines.BuildQuery(userID, Day(12)))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Lines, 2, "the teacher loan is not due yet")
	assert.Equal(t, stillOut.LoanID, result.Lines[0].LoanID)
	assert.Equal(t, "20", result.Lines[0].Fine.String())
	assert.False(t, result.Lines[0].Returned)
	assert.Equal(t, returnedLate.LoanID, result.Lines[1].LoanID)
	assert.Equal(t, "10", result.Lines[1].Fine.String())
	assert.True(t, result.Lines[1].Returned)
	assert.Equal(t, "30", result.Total.String())
}
