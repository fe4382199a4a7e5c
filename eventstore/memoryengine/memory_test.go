package memoryengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/internal/instrumentation"
	"github.com/AntonStoeckl/library-lending/eventstore/memoryengine"
	. "github.com/AntonStoeckl/library-lending/testutil/eventstore/estesthelpers" //nolint:revive
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

func Test_EventStore_Contract(t *testing.T) {
	RunContractTests(t, func(t *testing.T) eventstore.EventStore {
		es, err := memoryengine.NewEventStore()
		require.NoError(t, err)

		return es
	})
}

func Test_Append_Fails_WhenThePayloadIsNotAnObject(t *testing.T) {
	// arrange
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	event, buildErr := eventstore.BuildStorableEventWithEmptyMetadata("Odd", time.Unix(0, 0).UTC(), []byte(`[1, 2]`))
	require.NoError(t, buildErr)

	// act
	appendErr := es.Append(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent(), 0, event)

	// assert
	assert.ErrorIs(t, appendErr, eventstore.ErrDecodingPayloadForFilterFailed)
}

func Test_Query_ReturnsCopies_WhenCallersModifyThePayload(t *testing.T) {
	// arrange
	ctx := context.Background()
	es, err := memoryengine.NewEventStore()
	require.NoError(t, err)
	bookID := GivenUniqueID(t)
	filter := FilterAllEventsForOneBook(bookID)
	require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, time.Unix(0, 0).UTC())))
	first, _, _ := es.Query(ctx, filter)

	// act
	first[0].PayloadJSON[0] = 'X'

	// assert
	second, _, queryErr := es.Query(ctx, filter)
	require.NoError(t, queryErr)
	assert.Equal(t, byte('{'), second[0].PayloadJSON[0])
}

func Test_EventStore_WithObservability_RecordsQueryAndAppend(t *testing.T) {
	// arrange
	ctx := context.Background()
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()
	es, err := memoryengine.NewEventStore(
		memoryengine.WithMetrics(metrics),
		memoryengine.WithTracing(tracing),
		memoryengine.WithContextualLogger(logger),
	)
	require.NoError(t, err)
	bookID := GivenUniqueID(t)
	filter := FilterAllEventsForOneBook(bookID)

	// act
	appendErr := es.Append(ctx, filter, 0, FixtureAdded(t, bookID, time.Unix(0, 0).UTC()))
	_, _, queryErr := es.Query(ctx, filter)

	// assert
	require.NoError(t, appendErr)
	require.NoError(t, queryErr)
	assert.True(t, metrics.HasDurationRecordForMetric(instrumentation.MetricAppendDuration).
		WithStatus(instrumentation.StatusSuccess).
		WithLabel("engine", "memory").
		Assert())
	assert.True(t, metrics.HasValueRecordForMetric(instrumentation.MetricEventsQueried).WithOperation("query").Assert())
	assert.True(t, tracing.HasFinishedSpan(instrumentation.SpanNameAppend, instrumentation.StatusSuccess))
	assert.True(t, tracing.HasFinishedSpan(instrumentation.SpanNameQuery, instrumentation.StatusSuccess))
	assert.True(t, logger.HasLog("info", "eventstore operation: events appended"))
}

func Test_EventStore_WithObservability_RecordsConcurrencyConflicts(t *testing.T) {
	// arrange
	ctx := context.Background()
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	es, err := memoryengine.NewEventStore(memoryengine.WithMetrics(metrics), memoryengine.WithTracing(tracing))
	require.NoError(t, err)
	bookID := GivenUniqueID(t)
	filter := FilterAllEventsForOneBook(bookID)
	require.NoError(t, es.Append(ctx, filter, 0, FixtureAdded(t, bookID, time.Unix(0, 0).UTC())))

	// act
	conflictErr := es.Append(ctx, filter, 0, FixtureAdded(t, bookID, time.Unix(0, 0).UTC()))

	// assert
	assert.ErrorIs(t, conflictErr, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, metrics.CountCounterRecordsForMetric(instrumentation.MetricConcurrencyConflicts))
	assert.True(t, tracing.HasFinishedSpan(instrumentation.SpanNameAppend, instrumentation.StatusError))
}
