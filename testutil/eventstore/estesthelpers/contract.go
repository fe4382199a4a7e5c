package estesthelpers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

// EventStoreFactory returns a fresh, empty store for each subtest.
type EventStoreFactory func(t *testing.T) eventstore.EventStore

// RunContractTests runs the behavior every engine must show.
//
//nolint:funlen
func RunContractTests(t *testing.T, newStore EventStoreFactory) {
	t.Helper()

	fakeClock := time.Unix(0, 0).UTC()

	t.Run("Append_Succeeds_WhenNoEventMatchesTheFilter", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBook(bookID)

		// act
		err := es.Append(ctx, filter, 0, FixtureAdded(t, bookID, fakeClock))

		// assert
		require.NoError(t, err)
		events, maxSeq, queryErr := es.Query(ctx, filter)
		require.NoError(t, queryErr)
		assert.Len(t, events, 1)
		assert.Equal(t, EventTypeAdded, events[0].EventType)
		assert.True(t, fakeClock.Equal(events[0].OccurredAt))
		assert.JSONEq(t, `{"MessageID": "m-1"}`, string(events[0].MetadataJSON))
		assert.Positive(t, maxSeq)
	})

	t.Run("Append_Succeeds_WhenTheExpectedSequenceNumberIsCurrent", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		userID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBook(bookID)
		require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, fakeClock)))
		maxSeq := QueryMaxSequenceNumber(t, ctx, es, filter)

		// act
		err := es.Append(ctx, filter, maxSeq, FixtureBorrowed(t, bookID, userID, fakeClock))

		// assert
		require.NoError(t, err)
		events, _, queryErr := es.Query(ctx, filter)
		require.NoError(t, queryErr)
		assert.Len(t, events, 2)
		assert.Equal(t, EventTypeBorrowed, events[1].EventType)
	})

	t.Run("Append_Fails_WhenAMatchingEventWasAppendedMeanwhile", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		userID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBook(bookID)
		require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, fakeClock)))
		staleMaxSeq := QueryMaxSequenceNumber(t, ctx, es, filter)
		require.NoError(t, es.Append(ctx, filter, staleMaxSeq, FixtureBorrowed(t, bookID, userID, fakeClock)))

		// act
		err := es.Append(ctx, filter, staleMaxSeq, FixtureBorrowed(t, bookID, userID, fakeClock))

		// assert
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		events, _, queryErr := es.Query(ctx, filter)
		require.NoError(t, queryErr)
		assert.Len(t, events, 2)
	})

	t.Run("Append_Succeeds_WhenOnlyUnrelatedEventsWereAppendedMeanwhile", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		otherBookID := GivenUniqueID(t)
		userID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBook(bookID)
		require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, fakeClock)))
		maxSeq := QueryMaxSequenceNumber(t, ctx, es, filter)
		otherFilter := FilterAllEventsForOneBook(otherBookID)
		require.NoError(t, es.Append(ctx, otherFilter, 0, FixtureAdded(t, otherBookID, fakeClock)))

		// act
		err := es.Append(ctx, filter, maxSeq, FixtureBorrowed(t, bookID, userID, fakeClock))

		// assert
		assert.NoError(t, err)
	})

	t.Run("AppendMultiple_StoresAllEventsInOrder", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		userID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBookOrUser(bookID, userID)

		// act
		err := es.Append(
			ctx,
			filter,
			0,
			FixtureAdded(t, bookID, fakeClock),
			FixtureBorrowed(t, bookID, userID, fakeClock),
			FixtureReturned(t, bookID, userID, fakeClock),
		)

		// assert
		require.NoError(t, err)
		events, _, queryErr := es.Query(ctx, filter)
		require.NoError(t, queryErr)
		require.Len(t, events, 3)
		assert.Equal(t, EventTypeAdded, events[0].EventType)
		assert.Equal(t, EventTypeBorrowed, events[1].EventType)
		assert.Equal(t, EventTypeReturned, events[2].EventType)
	})

	t.Run("Query_FiltersByEventTypeAndPredicates", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		userID := GivenUniqueID(t)
		otherUserID := GivenUniqueID(t)
		seed := eventstore.BuildEventFilter().MatchingAnyEvent()
		require.NoError(t, es.Append(
			ctx,
			seed,
			0,
			FixtureAdded(t, bookID, fakeClock),
			FixtureBorrowed(t, bookID, userID, fakeClock),
			FixtureBorrowed(t, bookID, otherUserID, fakeClock),
			FixtureReturned(t, bookID, userID, fakeClock),
		))

		filter := eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(EventTypeBorrowed).
			AndAllPredicatesOf(eventstore.P("BookID", bookID.String()), eventstore.P("UserID", userID.String())).
			Finalize()

		// act
		events, maxSeq, err := es.Query(ctx, filter)

		// assert
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBorrowed, events[0].EventType)
		assert.Contains(t, string(events[0].PayloadJSON), userID.String())
		assert.Positive(t, maxSeq)
	})

	t.Run("Query_ReturnsEmptyStreamAndZero_WhenNothingMatches", func(t *testing.T) {
		// arrange
		es := newStore(t)

		// act
		events, maxSeq, err := es.Query(context.Background(), FilterAllEventsForOneBook(GivenUniqueID(t)))

		// assert
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
	})

	t.Run("Append_Fails_WhenNoEventsAreSupplied", func(t *testing.T) {
		// arrange
		es := newStore(t)

		// act
		err := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0)

		// assert
		assert.ErrorIs(t, err, eventstore.ErrNoEventsToAppend)
	})

	t.Run("Append_Fails_WhenTheContextIsCancelled", func(t *testing.T) {
		// arrange
		es := newStore(t)
		bookID := GivenUniqueID(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// act
		err := es.Append(ctx, FilterAllEventsForOneBook(bookID), 0, FixtureAdded(t, bookID, fakeClock))

		// assert
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Query_Fails_WhenTheContextIsCancelled", func(t *testing.T) {
		// arrange
		es := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// act
		_, _, err := es.Query(ctx, FilterAllEventsForOneBook(GivenUniqueID(t)))

		// assert
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Append_AdmitsExactlyOneWriter_WhenWritersRaceOnTheSameExpectation", func(t *testing.T) {
		// arrange
		ctx := context.Background()
		es := newStore(t)
		bookID := GivenUniqueID(t)
		filter := FilterAllEventsForOneBook(bookID)
		require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, fakeClock)))
		maxSeq := QueryMaxSequenceNumber(t, ctx, es, filter)

		numWriters := 8
		successes := atomic.Int32{}
		conflicts := atomic.Int32{}
		var wg sync.WaitGroup

		borrowed := make([]eventstore.StorableEvent, numWriters)
		for i := range borrowed {
			borrowed[i] = FixtureBorrowed(t, bookID, GivenUniqueID(t), fakeClock)
		}

		// act
		for i := range numWriters {
			wg.Add(1)

			go func() {
				defer wg.Done()

				err := es.Append(ctx, filter, maxSeq, borrowed[i])

				switch {
				case err == nil:
					successes.Add(1)
				case errors.Is(err, eventstore.ErrConcurrencyConflict):
					conflicts.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}

		wg.Wait()

		// assert
		assert.Equal(t, int32(1), successes.Load())
		assert.Equal(t, int32(numWriters-1), conflicts.Load())
		events, _, err := es.Query(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})
}
