package borrowbook_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/borrowbook"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_CommandHandler_Handle_Success(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	GivenHistory(t, store, BookAdded(bookID, "isbn-1", "Title", 2, Day(0)))
	handler := borrowbook.NewCommandHandler(store)
	command := borrowbook.BuildCommand(GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleStudent, StudentTerms, Day(1))

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.False(t, result.Idempotent)
	assert.IsType(t, core.BookBorrowed{}, result.AppendedEvent)

	book, found := core.ProjectBook(AllEvents(t, store), bookID.String())
	require.True(t, found)
	assert.Equal(t, 1, book.AvailableCopies())
}

func Test_CommandHandler_Handle_Idempotent_WhenRetriedWithSameLoanID(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	GivenHistory(t, store, BookAdded(bookID, "isbn-1", "Title", 2, Day(0)))
	handler := borrowbook.NewCommandHandler(store)
	command := borrowbook.BuildCommand(GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleStudent, StudentTerms, Day(1))
	_, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Len(t, AllEvents(t, store), 2)
}

func Test_CommandHandler_Handle_Error_WhenOutOfStock(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	GivenHistory(t, store,
		BookAdded(bookID, "isbn-1", "Title", 1, Day(0)),
		BookBorrowed(GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleTeacher, Day(0)),
	)
	handler := borrowbook.NewCommandHandler(store)

	// act
	result, err := handler.Handle(ctx, borrowbook.BuildCommand(
		GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleStudent, StudentTerms, Day(1),
	))

	// assert
	assert.ErrorIs(t, err, core.ErrOutOfStock)
	assert.Equal(t, 1, result.RetryAttempts, "business rejections are not retried")
	assert.Len(t, AllEvents(t, store), 2)
}

func Test_CommandHandler_Handle_ConcurrentBorrowsOfLastCopy_ExactlyOneWins(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	GivenHistory(t, store, BookAdded(bookID, "isbn-1", "Title", 1, Day(0)))
	handler := borrowbook.NewCommandHandler(store)

	const borrowers = 8
	errs := make([]error, borrowers)
	commands := make([]borrowbook.Command, borrowers)
	for i := range commands {
		commands[i] = borrowbook.BuildCommand(GivenUniqueID(t), bookID, GivenUniqueID(t), core.RoleStudent, StudentTerms, Day(1))
	}

	// act
	var wg sync.WaitGroup
	for i := range commands {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = handler.Handle(ctx, commands[i])
		}()
	}
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.True(t, errors.Is(err, core.ErrOutOfStock), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, successes)

	book, found := core.ProjectBook(AllEvents(t, store), bookID.String())
	require.True(t, found)
	assert.Equal(t, 0, book.AvailableCopies())
	assert.True(t, book.IsConsistent())
}
