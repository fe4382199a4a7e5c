package sqliteengine_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/internal/instrumentation"
	"github.com/AntonStoeckl/library-lending/eventstore/sqliteengine"
	. "github.com/AntonStoeckl/library-lending/testutil/eventstore/estesthelpers" //nolint:revive
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

func givenDatabase(t *testing.T, tableName string) *sql.DB {
	t.Helper()

	db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqliteengine.CreateSchema(context.Background(), db, tableName))

	return db
}

func Test_EventStore_Contract(t *testing.T) {
	RunContractTests(t, func(t *testing.T) eventstore.EventStore {
		es, err := sqliteengine.NewEventStore(givenDatabase(t, "events"))
		require.NoError(t, err)

		return es
	})
}

func Test_NewEventStore_Fails_WhenTheDatabaseIsNil(t *testing.T) {
	_, err := sqliteengine.NewEventStore(nil)

	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)
}

func Test_NewEventStore_Fails_WhenTheTableNameIsEmpty(t *testing.T) {
	_, err := sqliteengine.NewEventStore(givenDatabase(t, "events"), sqliteengine.WithTableName(""))

	assert.ErrorIs(t, err, eventstore.ErrEmptyEventsTableName)
}

func Test_EventStore_WithTableName_UsesTheCustomTable(t *testing.T) {
	// arrange
	ctx := context.Background()
	es, err := sqliteengine.NewEventStore(givenDatabase(t, "lending_events"), sqliteengine.WithTableName("lending_events"))
	require.NoError(t, err)
	bookID := GivenUniqueID(t)
	filter := FilterAllEventsForOneBook(bookID)

	// act
	appendErr := es.Append(ctx, filter, 0, FixtureAdded(t, bookID, time.Unix(0, 0).UTC()))

	// assert
	require.NoError(t, appendErr)
	events, _, queryErr := es.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}

func Test_Query_Fails_WhenTheTableDoesNotExist(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	es, err := sqliteengine.NewEventStore(
		givenDatabase(t, "events"),
		sqliteengine.WithTableName("missing"),
		sqliteengine.WithMetrics(metrics),
	)
	require.NoError(t, err)

	// act
	_, _, queryErr := es.Query(context.Background(), FilterAllEventsForOneBook(GivenUniqueID(t)))

	// assert
	assert.ErrorIs(t, queryErr, eventstore.ErrQueryingEventsFailed)
	assert.True(t, metrics.HasCounterRecordForMetric(instrumentation.MetricDatabaseErrors).
		WithErrorType(instrumentation.ErrorTypeDatabaseQuery).
		Assert())
}

func Test_Query_PreservesOccurredAtAndIgnoresNonStringPayloadValues(t *testing.T) {
	// arrange
	ctx := context.Background()
	es, err := sqliteengine.NewEventStore(givenDatabase(t, "events"))
	require.NoError(t, err)
	occurredAt := time.Date(2025, 3, 1, 12, 30, 15, 123456789, time.UTC)
	event, buildErr := eventstore.BuildStorableEventWithEmptyMetadata("BookCopiesChanged", occurredAt, []byte(`{"BookID": "b-1", "TotalCopies": 3}`))
	require.NoError(t, buildErr)
	require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0, event))

	numeric := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("TotalCopies", "3")).Finalize()
	byBook := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()

	// act
	numericEvents, _, numericErr := es.Query(ctx, numeric)
	bookEvents, _, bookErr := es.Query(ctx, byBook)

	// assert
	require.NoError(t, numericErr)
	require.NoError(t, bookErr)
	assert.Empty(t, numericEvents)
	require.Len(t, bookEvents, 1)
	assert.True(t, occurredAt.Equal(bookEvents[0].OccurredAt))
}

func Test_Query_MatchesPredicateValuesWithQuotes(t *testing.T) {
	// arrange
	ctx := context.Background()
	es, err := sqliteengine.NewEventStore(givenDatabase(t, "events"))
	require.NoError(t, err)
	event, buildErr := eventstore.BuildStorableEventWithEmptyMetadata("BookAddedToCatalog", time.Unix(0, 0).UTC(), []byte(`{"Title": "Harry's Book"}`))
	require.NoError(t, buildErr)
	require.NoError(t, es.Append(ctx, eventstore.BuildEventFilter().MatchingAnyEvent(), 0, event))

	// act
	events, _, queryErr := es.Query(ctx, eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("Title", "Harry's Book")).Finalize())

	// assert
	require.NoError(t, queryErr)
	assert.Len(t, events, 1)
}
