package eventstore

import "context"

// EventStore is implemented by every engine.
//
// Query returns all events matching the filter in append order together with the highest
// sequence number among them (0 for an empty stream).
//
// Append stores the events only if the highest sequence number matching the same filter still
// equals expectedMaxSequenceNumber. The check and the write are one atomic unit, otherwise
// ErrConcurrencyConflict is returned and nothing is stored.
type EventStore interface {
	Query(ctx context.Context, filter Filter) (StorableEvents, MaxSequenceNumberUint, error)
	Append(ctx context.Context, filter Filter, expectedMaxSequenceNumber MaxSequenceNumberUint, events ...StorableEvent) error
}
