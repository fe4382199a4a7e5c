package returnbook_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/returnbook"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_Decide_Success_WithoutFine_WhenReturnedOnTime(t *testing.T) {
	// arrange
	bookID := GivenUniqueID(t)
	userID := GivenUniqueID(t)
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, userID, core.RoleStudent, Day(0))
	history := core.DomainEvents{BookAdded(bookID, "isbn-1", "Title", 1, Day(0)), borrowed}
	command := returnbook.BuildCommand(uuidOf(t, borrowed.LoanID), userID, Day(7))

	// act
	result := returnbook.Decide(history, command)

	// assert
	require.True(t, result.HasEventToAppend())
	event := result.Event.(core.BookReturned)
	assert.Equal(t, borrowed.LoanID, event.LoanID)
	assert.Equal(t, bookID.String(), event.BookID)
	assert.True(t, event.Fine.IsZero())
}

func Test_Decide_Success_FreezesFine_WhenReturnedLate(t *testing.T) {
	// arrange
	bookID := GivenUniqueID(t)
	userID := GivenUniqueID(t)
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, userID, core.RoleStudent, Day(0))
	history := core.DomainEvents{BookAdded(bookID, "isbn-1", "Title", 1, Day(0)), borrowed}
	command := returnbook.BuildCommand(uuidOf(t, borrowed.LoanID), userID, Day(10))

	// act
	result := returnbook.Decide(history, command)

	// assert
	require.True(t, result.HasEventToAppend())
	assert.True(t, decimal.NewFromInt(15).Equal(result.Event.(core.BookReturned).Fine), "3 days overdue at 5 per day")
}

func Test_Decide_BusinessErrors(t *testing.T) {
	bookID := GivenUniqueID(t)
	userID := GivenUniqueID(t)
	added := BookAdded(bookID, "isbn-1", "Title", 1, Day(0))
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, userID, core.RoleStudent, Day(0))

	testCases := []struct {
		name        string
		history     core.DomainEvents
		requester   string
		expectedErr error
	}{
		{
			name:        "loan unknown",
			history:     core.DomainEvents{added},
			expectedErr: core.ErrLoanNotFound,
		},
		{
			name:        "loan of another user",
			history:     core.DomainEvents{added, borrowed},
			requester:   GivenUniqueID(t).String(),
			expectedErr: core.ErrUnauthorized,
		},
		{
			name:        "already returned",
			history:     core.DomainEvents{added, borrowed, BookReturned(borrowed, Day(1))},
			expectedErr: core.ErrAlreadyReturned,
		},
		{
			name:        "book missing",
			history:     core.DomainEvents{borrowed},
			expectedErr: core.ErrInvariantViolation,
		},
		{
			name:        "more active loans than copies",
			history:     core.DomainEvents{added, borrowed, core.BuildBookCopiesChanged(bookID, 0, Day(1))},
			expectedErr: core.ErrInvariantViolation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			requester := userID
			if tc.requester != "" {
				requester = uuidOf(t, tc.requester)
			}

			// act
			result := returnbook.Decide(tc.history, returnbook.BuildCommand(uuidOf(t, borrowed.LoanID), requester, Day(2)))

			// assert
			assert.False(t, result.HasEventToAppend())
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
		})
	}
}
