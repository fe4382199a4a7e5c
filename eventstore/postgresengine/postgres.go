package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/internal/instrumentation"
	"github.com/AntonStoeckl/library-lending/eventstore/postgresengine/internal/adapters"
)

const (
	engineName                     = "postgres"
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgNothingToWrite           = "append called without events"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContains                = "payload @> ?::jsonb"
)

type sqlQueryString = string

// EventStore appends and queries events in one Postgres table.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrumentation.Observer
}

// NewEventStoreFromPGXPool creates an EventStore on a pgx pool.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates an EventStore which serves eventual consistency queries from the replica.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates an EventStore on a database/sql pool, e.g. opened with lib/pq.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates an EventStore on a sqlx pool.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		observer:       instrumentation.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching the filter in append order and the highest matching sequence number.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.StartQuery(ctx)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildQueryErr)
		return nil, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.observer.LogSQL(ctx, logActionQuery, sqlQuery, time.Since(start))

	if queryErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseQuery, logMsgDBQueryFailed, queryErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			es.observer.LogWarn(ctx, logMsgCloseRowsFailed, closeErr)
		}
	}()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var (
			eventType      string
			occurredAt     time.Time
			payload        []byte
			metadata       []byte
			sequenceNumber int64
		)

		if scanErr := rows.Scan(&eventType, &occurredAt, &payload, &metadata, &sequenceNumber); scanErr != nil {
			op.Failed(instrumentation.ErrorTypeRowScan, logMsgScanRowFailed, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		event, buildErr := eventstore.BuildStorableEvent(eventType, occurredAt, payload, metadata)
		if buildErr != nil {
			op.Failed(instrumentation.ErrorTypeBuildEvent, logMsgBuildStorableEventFailed, buildErr, "event_type", eventType)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		events = append(events, event)
		maxSequenceNumber = eventstore.MaxSequenceNumberUint(sequenceNumber)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseQuery, logMsgDBQueryFailed, rowsErr)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, rowsErr)
	}

	op.QuerySucceeded(events, maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

// Append stores the events if no event matching the filter was appended after expectedMaxSequenceNumber.
//
// Pass the same filter that was used for the Query the decision was based on.
// One command should typically produce one event, the multi-event statement is heavier.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	ctx, op := es.observer.StartAppend(ctx, events, expectedMaxSequenceNumber)

	if len(events) == 0 {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgNothingToWrite, eventstore.ErrNoEventsToAppend)
		return eventstore.ErrNoEventsToAppend
	}

	sqlQuery, buildQueryErr := es.buildAppendQuery(events, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgBuildInsertQueryFailed, buildQueryErr)
		return buildQueryErr
	}

	start := time.Now()
	result, execErr := es.db.Exec(ctx, sqlQuery)
	es.observer.LogSQL(ctx, logActionAppend, sqlQuery, time.Since(start))

	if execErr != nil {
		if adapters.IsSerializationFailure(execErr) {
			op.ConcurrencyConflict(expectedMaxSequenceNumber)
			return eventstore.ErrConcurrencyConflict
		}

		op.Failed(instrumentation.ErrorTypeDatabaseExec, logMsgDBExecFailed, execErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		op.Failed(instrumentation.ErrorTypeRowsAffected, logMsgRowsAffectedFailed, rowsAffectedErr)
		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(events)) {
		op.ConcurrencyConflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	op.AppendSucceeded(len(events))

	return nil
}

func (es *EventStore) buildAppendQuery(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	if len(events) == 1 {
		return es.buildInsertQueryForSingleEvent(events[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(events, filter, expectedMaxSequenceNumber)
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := es.addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) contextCTE(builder *goqu.DialectWrapper, filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return es.addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.contextCTE(&builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, cteErr := es.contextCTE(&builder, filter)
	if cteErr != nil {
		return "", cteErr
	}

	valuesStmt := builder.Select(eventColumns(events[0])...)
	for _, event := range events[1:] {
		valuesStmt = valuesStmt.UnionAll(builder.Select(eventColumns(event)...))
	}

	valsColumn := func(col string) string { return fmt.Sprintf("%s.%s", cteVals, col) }

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(valsColumn(colEventType), valsColumn(colOccurredAt), valsColumn(colPayload), valsColumn(colMetadata)).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func eventColumns(event eventstore.StorableEvent) []any {
	return []any{
		goqu.L(castText, event.EventType).As(colEventType),
		goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
		goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
		goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
	}
}

func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			containment, marshalErr := jsoniter.ConfigFastest.MarshalToString(map[string]string{predicate.Key(): predicate.Val()})
			if marshalErr != nil {
				return nil, errors.Join(eventstore.ErrBuildingQueryFailed, marshalErr)
			}

			predicateExpressions = append(predicateExpressions, goqu.L(payloadContains, containment))
		}

		var predicatesExpressionList exp.ExpressionList
		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		// event types are always OR-ed
		itemsExpressions = append(itemsExpressions, goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList))
	}

	if len(itemsExpressions) == 0 {
		return selectStmt, nil
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}
