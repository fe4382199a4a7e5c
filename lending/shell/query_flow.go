package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// QueryHistory reads the events matching the filter with eventual consistency and maps them to domain events.
// It returns the highest sequence number that went into the history.
func QueryHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(eventstore.WithEventualConsistency(ctx), filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}
