package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/engine"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

// testClock is advanced between engine calls, never during them.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) AdvanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

func givenEngine(t *testing.T, store shell.EventStore, opts ...engine.Option) (*engine.Engine, *testClock) {
	t.Helper()

	clock := &testClock{now: FixedNow()}
	opts = append([]engine.Option{engine.WithClock(clock.Now)}, opts...)

	e, err := engine.New(store, opts...)
	require.NoError(t, err)

	return e, clock
}

func givenBook(t *testing.T, e *engine.Engine, isbn string, copies int) uuid.UUID {
	t.Helper()

	bookID, err := e.AddBook(context.Background(), engine.NewBook{
		Details:     BookDetails(isbn, "Title "+isbn),
		TotalCopies: copies,
	})
	require.NoError(t, err)

	return bookID
}

func availableCopies(t *testing.T, e *engine.Engine, bookID uuid.UUID) int {
	t.Helper()

	book, err := e.GetBook(context.Background(), bookID)
	require.NoError(t, err)

	return book.AvailableCopies
}

func mustParse(t *testing.T, id string) uuid.UUID {
	t.Helper()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)

	return parsed
}

