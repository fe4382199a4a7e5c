package shell

import (
	"time"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

// HandlerResult is what a command handler reports besides the error:
// the business outcome plus retry metadata for the observability wrapper.
type HandlerResult struct {
	// Idempotent is a business outcome, nothing was appended.
	Idempotent bool

	// AppendedEvent is the event that was appended, nil when idempotent or failed.
	AppendedEvent core.DomainEvent

	// RetryAttempts counts all attempts, 1 means no retry.
	RetryAttempts int

	// TotalRetryDelay sums the backoff sleeps only.
	TotalRetryDelay time.Duration

	// LastErrorType is one of the ErrorType* values.
	LastErrorType string

	// RetriesExhausted is set when the last attempt still hit a retryable error.
	RetriesExhausted bool
}

func NewSuccessResult(retryMetrics RetryMetrics, appended core.DomainEvent) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.AppendedEvent = appended

	return result
}

func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.Idempotent = true

	return result
}

// NewErrorResult keeps the retry metadata of a failed command.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics)
}

func fromRetryMetrics(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
