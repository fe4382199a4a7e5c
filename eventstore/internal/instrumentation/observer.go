package instrumentation

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"

	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	SpanAttrEngine       = "engine"
	SpanAttrOperation    = "operation"
	SpanAttrEventCount   = "event_count"
	SpanAttrEventType    = "event_type"
	SpanAttrMaxSequence  = "max_sequence"
	SpanAttrExpectedSeq  = "expected_sequence"
	SpanAttrErrorType    = "error_type"
	SpanAttrDurationMS   = "duration_ms"
	SpanAttrConflictType = "conflict_type"

	LabelStatus = "status"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess = "success"
	StatusError   = "error"

	ErrorTypeBuildQuery     = "build_query"
	ErrorTypeDatabaseQuery  = "database_query"
	ErrorTypeRowScan        = "row_scan"
	ErrorTypeBuildEvent     = "build_storable_event"
	ErrorTypeDatabaseExec   = "database_exec"
	ErrorTypeRowsAffected   = "rows_affected"
	ErrorTypeConcurrency    = "concurrency_conflict"
	ErrorTypeDecodePayload  = "decode_payload"
	ErrorTypeContextTimeout = "context_timeout"

	logMsgSQLExecuted         = "executed sql for: "
	logMsgOperation           = "eventstore operation: "
	logMsgQueryCompleted      = "query completed"
	logMsgEventsAppended      = "events appended"
	logMsgConcurrencyConflict = "concurrency conflict detected"
	logAttrError              = "error"
	logAttrQuery              = "query"
	logAttrEngine             = "engine"
	logAttrEventCount         = "event_count"
	logAttrDurationMS         = "duration_ms"
	logAttrExpectedSequence   = "expected_sequence"
)

// Observer bundles the optional observability collaborators of one engine instance.
type Observer struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Operation observes a single Query or Append call from start to finish.
type Operation struct {
	observer  Observer
	ctx       context.Context
	name      string
	span      eventstore.SpanContext
	startedAt time.Time
}

func (o Observer) StartQuery(ctx context.Context) (context.Context, *Operation) {
	return o.start(ctx, OperationQuery, SpanNameQuery, map[string]string{})
}

func (o Observer) StartAppend(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (context.Context, *Operation) {

	attrs := map[string]string{
		SpanAttrEventCount:  strconv.Itoa(len(events)),
		SpanAttrExpectedSeq: strconv.FormatUint(uint64(expectedMaxSequenceNumber), 10),
	}

	if len(events) > 0 {
		attrs[SpanAttrEventType] = events[0].EventType
	}

	return o.start(ctx, OperationAppend, SpanNameAppend, attrs)
}

func (o Observer) start(ctx context.Context, operation, spanName string, attrs map[string]string) (context.Context, *Operation) {
	op := &Operation{observer: o, name: operation, startedAt: time.Now()}

	if o.Tracing != nil {
		attrs[SpanAttrOperation] = operation
		attrs[SpanAttrEngine] = o.Engine
		ctx, op.span = o.Tracing.StartSpan(ctx, spanName, attrs)
	}

	op.ctx = ctx

	return ctx, op
}

// QuerySucceeded finishes a query operation.
func (op *Operation) QuerySucceeded(events eventstore.StorableEvents, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.startedAt)

	op.recordDuration(MetricQueryDuration, duration, StatusSuccess)
	op.recordValue(MetricEventsQueried, float64(len(events)), StatusSuccess)
	op.logInfo(logMsgQueryCompleted, logAttrEventCount, len(events), logAttrDurationMS, ToMilliseconds(duration))
	op.finishSpan(StatusSuccess, map[string]string{
		SpanAttrEventCount:  strconv.Itoa(len(events)),
		SpanAttrMaxSequence: strconv.FormatUint(uint64(maxSequenceNumber), 10),
		SpanAttrDurationMS:  formatMilliseconds(duration),
	})
}

// AppendSucceeded finishes an append operation.
func (op *Operation) AppendSucceeded(eventCount int) {
	duration := time.Since(op.startedAt)

	op.recordDuration(MetricAppendDuration, duration, StatusSuccess)
	op.recordValue(MetricEventsAppended, float64(eventCount), StatusSuccess)
	op.logInfo(logMsgEventsAppended, logAttrEventCount, eventCount, logAttrDurationMS, ToMilliseconds(duration))
	op.finishSpan(StatusSuccess, map[string]string{
		SpanAttrEventCount: strconv.Itoa(eventCount),
		SpanAttrDurationMS: formatMilliseconds(duration),
	})
}

// ConcurrencyConflict finishes an append operation that lost the race.
// A conflict is an expected outcome, it is logged at info level.
func (op *Operation) ConcurrencyConflict(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(op.startedAt)

	op.recordDuration(MetricAppendDuration, duration, StatusError)
	op.incrementCounter(MetricConcurrencyConflicts, map[string]string{
		SpanAttrOperation:    op.name,
		SpanAttrConflictType: "concurrency",
	})
	op.logInfo(logMsgConcurrencyConflict, logAttrExpectedSequence, expectedMaxSequenceNumber)
	op.finishSpan(StatusError, map[string]string{
		SpanAttrErrorType:  ErrorTypeConcurrency,
		SpanAttrDurationMS: formatMilliseconds(duration),
	})
}

// Failed finishes the operation with an infrastructure error.
func (op *Operation) Failed(errorType string, msg string, err error, args ...any) {
	duration := time.Since(op.startedAt)

	metric := MetricQueryDuration
	if op.name == OperationAppend {
		metric = MetricAppendDuration
	}

	op.recordDuration(metric, duration, StatusError)
	op.incrementCounter(MetricDatabaseErrors, map[string]string{
		SpanAttrOperation: op.name,
		LabelStatus:       StatusError,
		SpanAttrErrorType: errorType,
	})
	op.observer.LogError(op.ctx, msg, err, args...)
	op.finishSpan(StatusError, map[string]string{
		SpanAttrErrorType:  errorType,
		SpanAttrDurationMS: formatMilliseconds(duration),
	})
}

// LogSQL logs an executed statement at debug level.
func (o Observer) LogSQL(ctx context.Context, action string, sqlQuery string, duration time.Duration) {
	args := []any{logAttrEngine, o.Engine, logAttrDurationMS, ToMilliseconds(duration), logAttrQuery, sqlQuery}

	if o.Logger != nil {
		o.Logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// LogWarn is used for failures that don't fail the operation, like closing rows.
func (o Observer) LogWarn(ctx context.Context, msg string, err error) {
	if o.Logger != nil {
		o.Logger.Warn(msg, logAttrError, err.Error())
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, msg, logAttrError, err.Error())
	}
}

func (o Observer) LogError(ctx context.Context, msg string, err error, args ...any) {
	allArgs := append([]any{logAttrEngine, o.Engine, logAttrError, err.Error()}, args...)

	if o.Logger != nil {
		o.Logger.Error(msg, allArgs...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, msg, allArgs...)
	}
}

func (op *Operation) logInfo(action string, args ...any) {
	allArgs := append([]any{logAttrEngine, op.observer.Engine}, args...)

	if op.observer.Logger != nil {
		op.observer.Logger.Info(logMsgOperation+action, allArgs...)
	}

	if op.observer.ContextualLogger != nil {
		op.observer.ContextualLogger.InfoContext(op.ctx, logMsgOperation+action, allArgs...)
	}
}

func (op *Operation) labels(status string) map[string]string {
	return map[string]string{
		SpanAttrOperation: op.name,
		SpanAttrEngine:    op.observer.Engine,
		LabelStatus:       status,
	}
}

func (op *Operation) recordDuration(metric string, duration time.Duration, status string) {
	if op.observer.Metrics == nil {
		return
	}

	if contextual, ok := op.observer.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(op.ctx, metric, duration, op.labels(status))
		return
	}

	op.observer.Metrics.RecordDuration(metric, duration, op.labels(status))
}

func (op *Operation) recordValue(metric string, value float64, status string) {
	if op.observer.Metrics == nil {
		return
	}

	if contextual, ok := op.observer.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(op.ctx, metric, value, op.labels(status))
		return
	}

	op.observer.Metrics.RecordValue(metric, value, op.labels(status))
}

func (op *Operation) incrementCounter(metric string, labels map[string]string) {
	if op.observer.Metrics == nil {
		return
	}

	labels[SpanAttrEngine] = op.observer.Engine

	if contextual, ok := op.observer.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(op.ctx, metric, labels)
		return
	}

	op.observer.Metrics.IncrementCounter(metric, labels)
}

func (op *Operation) finishSpan(status string, attrs map[string]string) {
	if op.observer.Tracing == nil || op.span == nil {
		return
	}

	op.observer.Tracing.FinishSpan(op.span, status, attrs)
}

// ToMilliseconds converts a duration to milliseconds rounded to 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(d))
}
