package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

// QueriesEvents is the read side of the event store as the query handlers need it.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore is what command handlers need: read a dynamic stream, then append conditionally.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Command is implemented by every command, CommandType labels logs, metrics and spans.
type Command interface {
	CommandType() string
}

// Query is implemented by every query, QueryType labels logs, metrics and spans.
type Query interface {
	QueryType() string
}

// QueryResult exposes the highest sequence number that went into the projection.
type QueryResult interface {
	GetSequenceNumber() uint
}

// CoreCommandHandler runs Query → Decide → Append without observability.
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CoreQueryHandler runs Query → Project without observability.
type CoreQueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
