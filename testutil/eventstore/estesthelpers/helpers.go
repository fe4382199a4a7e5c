package estesthelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

const (
	EventTypeBorrowed = "BookBorrowed"
	EventTypeReturned = "BookReturned"
	EventTypeAdded    = "BookAddedToCatalog"
)

func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "generating a uuid v7 failed")

	return id
}

func FilterAllEventsForOneBook(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}

func FilterAllEventsForOneBookOrUser(bookID, userID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String()), eventstore.P("UserID", userID.String())).
		Finalize()
}

func FixtureAdded(t testing.TB, bookID uuid.UUID, at time.Time) eventstore.StorableEvent {
	t.Helper()

	return fixture(t, EventTypeAdded, at, fmt.Sprintf(`{"BookID": %q, "TotalCopies": 1}`, bookID.String()))
}

func FixtureBorrowed(t testing.TB, bookID, userID uuid.UUID, at time.Time) eventstore.StorableEvent {
	t.Helper()

	return fixture(t, EventTypeBorrowed, at, fmt.Sprintf(`{"BookID": %q, "UserID": %q}`, bookID.String(), userID.String()))
}

func FixtureReturned(t testing.TB, bookID, userID uuid.UUID, at time.Time) eventstore.StorableEvent {
	t.Helper()

	return fixture(t, EventTypeReturned, at, fmt.Sprintf(`{"BookID": %q, "UserID": %q}`, bookID.String(), userID.String()))
}

func fixture(t testing.TB, eventType string, at time.Time, payload string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEvent(eventType, at, []byte(payload), []byte(`{"MessageID": "m-1"}`))
	require.NoError(t, err)

	return event
}

// QueryMaxSequenceNumber queries the filter and returns only the max sequence number.
func QueryMaxSequenceNumber(
	t testing.TB,
	ctx context.Context, //nolint:revive
	es eventstore.EventStore,
	filter eventstore.Filter,
) eventstore.MaxSequenceNumberUint {

	t.Helper()

	_, maxSeq, err := es.Query(ctx, filter)
	require.NoError(t, err)

	return maxSeq
}
