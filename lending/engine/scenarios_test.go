package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_Engine_Borrow_StudentTakesLastCopy_SecondStudentIsOutOfStock(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-a", 1)
	firstStudent := GivenUniqueID(t)

	// act
	loanID, err := e.Borrow(ctx, firstStudent, bookID, core.RoleStudent)
	require.NoError(t, err)
	_, secondErr := e.Borrow(ctx, GivenUniqueID(t), bookID, core.RoleStudent)

	// assert
	assert.ErrorIs(t, secondErr, core.ErrOutOfStock)
	assert.Equal(t, 0, availableCopies(t, e, bookID))

	loans, err := e.ListActiveLoans(ctx, firstStudent)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, loanID.String(), loans[0].LoanID)
	assert.True(t, loans[0].IsActive())
	assert.Equal(t, FixedNow().AddDate(0, 0, 7), loans[0].DueAt)
}

func Test_Engine_Borrow_TeacherGetsFourteenDays(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-b", 2)
	teacher := GivenUniqueID(t)

	// act
	_, err := e.Borrow(ctx, teacher, bookID, core.RoleTeacher)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, availableCopies(t, e, bookID))

	loans, err := e.ListActiveLoans(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, FixedNow().AddDate(0, 0, 14), loans[0].DueAt)
}

func Test_Engine_Return_FreezesFineOfLateReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, clock := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-c", 1)
	student := GivenUniqueID(t)
	loanID, err := e.Borrow(ctx, student, bookID, core.RoleStudent)
	require.NoError(t, err)
	clock.AdvanceDays(10)

	// act
	receipt, err := e.Return(ctx, loanID, student)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "15", receipt.Fine.String())
	assert.Equal(t, clock.Now(), receipt.ReturnedAt)
	assert.Equal(t, 1, availableCopies(t, e, bookID))

	laterFine, err := e.ComputeFine(ctx, loanID, clock.Now().AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, "15", laterFine.String(), "the fine is frozen at return")
}

func Test_Engine_Return_OnTime_HasNoFine(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, clock := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-c2", 1)
	student := GivenUniqueID(t)
	loanID, err := e.Borrow(ctx, student, bookID, core.RoleStudent)
	require.NoError(t, err)
	clock.AdvanceDays(7)

	// act
	receipt, err := e.Return(ctx, loanID, student)

	// assert
	require.NoError(t, err)
	assert.True(t, receipt.Fine.IsZero())
}

func Test_Engine_Return_ByAnotherUser_IsUnauthorizedAndLoanStaysActive(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-e", 1)
	owner := GivenUniqueID(t)
	loanID, err := e.Borrow(ctx, owner, bookID, core.RoleStudent)
	require.NoError(t, err)

	// act
	_, err = e.Return(ctx, loanID, GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	loans, err := e.ListActiveLoans(ctx, owner)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, loanID.String(), loans[0].LoanID)
	assert.Equal(t, 0, availableCopies(t, e, bookID))
}

func Test_Engine_Return_Twice_IsAlreadyReturnedWithoutStateChange(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	e, _ := givenEngine(t, store)
	bookID := givenBook(t, e, "isbn-f", 2)
	student := GivenUniqueID(t)
	loanID, err := e.Borrow(ctx, student, bookID, core.RoleStudent)
	require.NoError(t, err)
	_, err = e.Return(ctx, loanID, student)
	require.NoError(t, err)
	eventsBefore := len(AllEvents(t, store))

	// act
	_, err = e.Return(ctx, loanID, student)

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyReturned)
	assert.Len(t, AllEvents(t, store), eventsBefore)
	assert.Equal(t, 2, availableCopies(t, e, bookID))
}

func Test_Engine_Borrow_SameBookTwice_IsAlreadyBorrowedRegardlessOfRole(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-g", 3)
	user := GivenUniqueID(t)
	_, err := e.Borrow(ctx, user, bookID, core.RoleStudent)
	require.NoError(t, err)

	// act
	_, err = e.Borrow(ctx, user, bookID, core.RoleTeacher)

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyBorrowed)
	assert.Equal(t, 2, availableCopies(t, e, bookID))
}

func Test_Engine_Borrow_Errors(t *testing.T) {
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	removedID := givenBook(t, e, "isbn-h", 1)
	require.NoError(t, e.RemoveBook(ctx, removedID))

	t.Run("unknown book", func(t *testing.T) {
		_, err := e.Borrow(ctx, GivenUniqueID(t), GivenUniqueID(t), core.RoleStudent)
		assert.ErrorIs(t, err, core.ErrBookNotFound)
	})

	t.Run("removed book", func(t *testing.T) {
		_, err := e.Borrow(ctx, GivenUniqueID(t), removedID, core.RoleStudent)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := e.Borrow(ctx, GivenUniqueID(t), removedID, core.Role("librarian"))
		assert.ErrorIs(t, err, core.ErrUnknownRole)
	})
}

func Test_Engine_Return_UnknownLoan_IsNotFound(t *testing.T) {
	// arrange
	e, _ := givenEngine(t, GivenEventStore(t))

	// act
	_, err := e.Return(context.Background(), GivenUniqueID(t), GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotFound)
}
