// Package postgresengine implements eventstore.EventStore on PostgreSQL.
//
// It runs on pgxpool.Pool, *sql.DB (lib/pq) or *sqlx.DB. Append is a single
// INSERT ... SELECT statement guarded by a CTE that computes the current max sequence number of
// the filter's "dynamic event stream", so the check and the write happen in one statement.
// Connections should run at SERIALIZABLE isolation: concurrent conditional inserts then fail with
// a serialization failure, which the engine reports as eventstore.ErrConcurrencyConflict.
//
//	pool, _ := pgxpool.NewWithConfig(ctx, cfg)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
