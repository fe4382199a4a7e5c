package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// DecideFunc is a feature's Decide with its command already bound.
type DecideFunc func(history core.DomainEvents) core.DecisionResult

// QueryDecideAppend runs one attempt of a command: query the dynamic event stream, decide on it
// and append the resulting event guarded by the same filter.
// A rejected decision is returned as its error, an idempotent one appends nothing.
func QueryDecideAppend(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	decide DecideFunc,
) (core.DecisionResult, error) {

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, err
	}

	result := decide(history)

	if err = result.HasError(); err != nil {
		return result, err
	}

	if !result.HasEventToAppend() {
		return result, nil
	}

	storableEvent, err := StorableEventFrom(result.Event, EventMetadataFor(ctx))
	if err != nil {
		return core.DecisionResult{}, err
	}

	if err = eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent); err != nil {
		return core.DecisionResult{}, err
	}

	return result, nil
}

// HandleWithRetry retries attempt on concurrency conflicts and builds the HandlerResult.
func HandleWithRetry(
	ctx context.Context,
	attempt func(ctx context.Context) (core.DecisionResult, error),
	retryOptions ...RetryOption,
) (HandlerResult, error) {

	var decision core.DecisionResult

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var attemptErr error
		decision, attemptErr = attempt(retryCtx)

		return attemptErr
	}, retryOptions...)

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	if decision.IsIdempotent() {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(retryMetrics, decision.Event), nil
}
