package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/internal/instrumentation"
)

const (
	engineName            = "sqlite"
	defaultEventTableName = "events"

	dialectSQLite = "sqlite3"

	colSequenceNumber = "sequence_number"
	colOccurredAt     = "occurred_at"
	colEventType      = "event_type"
	colPayload        = "payload"
	colMetadata       = "metadata"
	aliasMaxSeq       = "max_seq"
	jsonExtract       = "json_extract(payload, ?)"

	logActionQuery  = "query"
	logActionAppend = "append"

	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBeginTxFailed            = "failed to begin transaction"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgCommitFailed             = "failed to commit transaction"
	logMsgRollbackFailed           = "failed to roll back transaction"
	logMsgNothingToWrite           = "append called without events"
)

var (
	ErrBeginningTransactionFailed  = errors.New("beginning the transaction failed")
	ErrCommittingTransactionFailed = errors.New("committing the transaction failed")
	ErrParsingOccurredAtFailed     = errors.New("parsing occurred_at failed")
)

// EventStore appends and queries events in one SQLite table.
type EventStore struct {
	db             *sql.DB
	eventTableName string
	observer       instrumentation.Observer
}

// NewEventStore creates an EventStore on an open database. The table must exist, see CreateSchema.
func NewEventStore(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, eventstore.ErrNilDatabaseConnection
	}

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

	sqlQuery, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildErr)
		return nil, 0, buildErr
	}

	start := time.Now()
	rows, queryErr := es.db.QueryContext(ctx, sqlQuery)
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
			sequenceNumber int64
			occurredAt     string
			eventType      string
			payload        []byte
			metadata       []byte
		)

		if scanErr := rows.Scan(&sequenceNumber, &occurredAt, &eventType, &payload, &metadata); scanErr != nil {
			op.Failed(instrumentation.ErrorTypeRowScan, logMsgScanRowFailed, scanErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, scanErr)
		}

		parsedAt, parseErr := time.Parse(time.RFC3339Nano, occurredAt)
		if parseErr != nil {
			op.Failed(instrumentation.ErrorTypeRowScan, logMsgScanRowFailed, parseErr)
			return nil, 0, errors.Join(eventstore.ErrScanningDBRowFailed, ErrParsingOccurredAtFailed, parseErr)
		}

		event, buildEventErr := eventstore.BuildStorableEvent(eventType, parsedAt, payload, metadata)
		if buildEventErr != nil {
			op.Failed(instrumentation.ErrorTypeBuildEvent, logMsgBuildStorableEventFailed, buildEventErr)
			return nil, 0, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildEventErr)
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
// The check and the inserts share one transaction.
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

	maxSeqQuery, buildMaxErr := es.buildMaxSequenceQuery(filter)
	if buildMaxErr != nil {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgBuildSelectQueryFailed, buildMaxErr)
		return buildMaxErr
	}

	insertQuery, buildInsertErr := es.buildInsertQuery(events)
	if buildInsertErr != nil {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgBuildInsertQueryFailed, buildInsertErr)
		return buildInsertErr
	}

	tx, beginErr := es.db.BeginTx(ctx, nil)
	if beginErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseExec, logMsgBeginTxFailed, beginErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, ErrBeginningTransactionFailed, beginErr)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			es.observer.LogWarn(ctx, logMsgRollbackFailed, rollbackErr)
		}
	}()

	start := time.Now()
	var currentMax int64
	maxErr := tx.QueryRowContext(ctx, maxSeqQuery).Scan(&currentMax)
	es.observer.LogSQL(ctx, logActionAppend, maxSeqQuery, time.Since(start))

	if maxErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseQuery, logMsgDBQueryFailed, maxErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, maxErr)
	}

	if eventstore.MaxSequenceNumberUint(currentMax) != expectedMaxSequenceNumber {
		op.ConcurrencyConflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	start = time.Now()
	_, execErr := tx.ExecContext(ctx, insertQuery)
	es.observer.LogSQL(ctx, logActionAppend, insertQuery, time.Since(start))

	if execErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseExec, logMsgDBExecFailed, execErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		op.Failed(instrumentation.ErrorTypeDatabaseExec, logMsgCommitFailed, commitErr)
		return errors.Join(eventstore.ErrAppendingEventFailed, ErrCommittingTransactionFailed, commitErr)
	}

	committed = true
	op.AppendSucceeded(len(events))

	return nil
}

func (es *EventStore) buildSelectQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(colSequenceNumber, colOccurredAt, colEventType, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())

	sqlQuery, _, toSQLErr := es.addWhereClause(filter, selectStmt).ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildMaxSequenceQuery(filter eventstore.Filter) (string, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0).As(aliasMaxSeq))

	sqlQuery, _, toSQLErr := es.addWhereClause(filter, selectStmt).ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQuery(events eventstore.StorableEvents) (string, error) {
	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colOccurredAt: event.OccurredAt.UTC().Format(time.RFC3339Nano),
			colEventType:  event.EventType,
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectSQLite).
		Insert(es.eventTableName).
		Rows(rows...).
		ToSQL()

	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		eventTypeExpressions := make([]goqu.Expression, 0, len(item.EventTypes()))
		for _, eventType := range item.EventTypes() {
			eventTypeExpressions = append(eventTypeExpressions, goqu.Ex{colEventType: eventType})
		}

		predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))
		for _, predicate := range item.Predicates() {
			predicateExpressions = append(
				predicateExpressions,
				goqu.L(jsonExtract, "$."+predicate.Key()).Eq(predicate.Val()),
			)
		}

		var predicatesExpressionList exp.ExpressionList
		if item.AllPredicatesMustMatch() {
			predicatesExpressionList = goqu.And(predicateExpressions...)
		} else {
			predicatesExpressionList = goqu.Or(predicateExpressions...)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(goqu.Or(eventTypeExpressions...), predicatesExpressionList))
	}

	if len(itemsExpressions) == 0 {
		return selectStmt
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...))
}
