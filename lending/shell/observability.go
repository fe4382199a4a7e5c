package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	CommandHandlerDurationMetric          = "commandhandler_handle_duration_seconds"
	CommandHandlerCallsMetric             = "commandhandler_handle_calls_total"
	CommandHandlerIdempotentMetric        = "commandhandler_idempotent_operations_total"
	CommandHandlerRejectedMetric          = "commandhandler_rejected_operations_total"
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_seconds"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"
	QueryHandlerCallsMetric    = "queryhandler_handle_calls_total"

	// InvariantViolationsMetric counts catalog invariant violations, any increase needs an operator.
	InvariantViolationsMetric = "lending_invariant_violations_total"

	StatusSuccess             = "success"
	StatusIdempotent          = "idempotent"
	StatusRejected            = "rejected"
	StatusError               = "error"
	StatusCanceled            = "canceled"
	StatusTimeout             = "timeout"
	StatusConcurrencyConflict = "conflict"

	ErrorTypeNone                = "none"
	ErrorTypeConcurrencyConflict = "concurrency_conflict"
	ErrorTypeContextCanceled     = "context_canceled"
	ErrorTypeContextDeadline     = "context_deadline_exceeded"
	ErrorTypeBusinessRule        = "business_rule"
	ErrorTypeOther               = "other"

	LogMsgCommandStarted     = "command handler started"
	LogMsgCommandCompleted   = "command handler completed"
	LogMsgCommandRejected    = "command handler rejected the command"
	LogMsgCommandFailed      = "command handler failed"
	LogMsgQueryStarted       = "query handler started"
	LogMsgQueryCompleted     = "query handler completed"
	LogMsgQueryFailed        = "query handler failed"
	LogMsgInvariantViolation = "catalog invariant violated, nothing was appended"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrError           = "error"
	LogAttrErrorType       = "error_type"
	LogAttrAttemptNumber   = "attempt_number"
	LogAttrAlert           = "alert"
	LogAttrResultCount     = "result_count"

	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// The handlers use the event store ports, so one set of adapters serves both layers.

type MetricsCollector = eventstore.MetricsCollector

type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

type TracingCollector = eventstore.TracingCollector

type SpanContext = eventstore.SpanContext

type ContextualLogger = eventstore.ContextualLogger

type Logger = eventstore.Logger

// ErrorTypeOf classifies an error for metric labels.
func ErrorTypeOf(err error) string {
	switch {
	case err == nil:
		return ErrorTypeNone
	case errors.Is(err, eventstore.ErrConcurrencyConflict), errors.Is(err, core.ErrContention):
		return ErrorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return ErrorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, core.ErrTimeout):
		return ErrorTypeContextDeadline
	case core.IsBusinessError(err):
		return ErrorTypeBusinessRule
	default:
		return ErrorTypeOther
	}
}

// StatusOf maps a handler error to the status used in metrics, spans and logs.
func StatusOf(err error) string {
	switch ErrorTypeOf(err) {
	case ErrorTypeNone:
		return StatusSuccess
	case ErrorTypeConcurrencyConflict:
		return StatusConcurrencyConflict
	case ErrorTypeContextCanceled:
		return StatusCanceled
	case ErrorTypeContextDeadline:
		return StatusTimeout
	case ErrorTypeBusinessRule:
		return StatusRejected
	default:
		return StatusError
	}
}

func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType:   commandType,
		LogAttrAttemptNumber: strconv.Itoa(attemptNumber),
		LogAttrErrorType:     errorType,
	}
}

func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count, plus one outcome counter for idempotent
// and rejected commands.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	RecordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	IncrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	switch status {
	case StatusIdempotent:
		IncrementCounter(ctx, collector, CommandHandlerIdempotentMetric, BuildCommandLabels(commandType, status))
	case StatusRejected:
		IncrementCounter(ctx, collector, CommandHandlerRejectedMetric, BuildCommandLabels(commandType, status))
	}
}

func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	RecordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	IncrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)
}

// RecordRetryMetrics reports retries and exhaustion from the HandlerResult of a command.
func RecordRetryMetrics(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		IncrementCounter(
			ctx,
			collector,
			CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType),
		)

		RecordDuration(
			ctx,
			collector,
			CommandHandlerRetryDelayMetric,
			result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType},
		)
	}

	if result.RetriesExhausted {
		IncrementCounter(
			ctx,
			collector,
			CommandHandlerMaxRetriesReachedMetric,
			map[string]string{LogAttrCommandType: commandType, LogAttrErrorType: result.LastErrorType},
		)
	}
}

// RecordDuration prefers the contextual variant of the collector.
func RecordDuration(
	ctx context.Context,
	collector MetricsCollector,
	metric string,
	duration time.Duration,
	labels map[string]string,
) {

	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	collector.RecordDuration(metric, duration, labels)
}

// IncrementCounter prefers the contextual variant of the collector.
func IncrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

// StartSpan returns ctx and a nil span when tracing is disabled.
func StartSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	spanName string,
	attrs map[string]string,
) (context.Context, SpanContext) {

	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, spanName, attrs)
}

func FinishSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {

	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogInfo prefers the contextual logger.
func LogInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

// LogWarn prefers the contextual logger.
func LogWarn(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Warn(msg, args...)
	}
}

// LogError prefers the contextual logger.
func LogError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}
