// Package eventstore holds the engine-independent parts of the event store: filters describing
// "dynamic event streams", the StorableEvent DTO, consistency hints and observability ports.
//
// There are no fixed streams. A decision reads the events matching a Filter, remembers the highest
// sequence number it saw and appends its outcome with the same Filter and that number. If anything
// matching the Filter was appended in between, the append fails with ErrConcurrencyConflict.
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// ... decide
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in the sub packages memoryengine, sqliteengine and postgresengine.
package eventstore
