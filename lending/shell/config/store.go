package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-lending/eventstore/postgresengine"
	"github.com/AntonStoeckl/library-lending/eventstore/sqliteengine"
	"github.com/AntonStoeckl/library-lending/lending/shell"
)

// StoreObservability is handed to the event store engine. Nil members are disabled.
type StoreObservability struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// OpenedStore is an event store together with the resources it owns.
type OpenedStore struct {
	EventStore shell.EventStore
	Driver     string
	closers    []func() error
}

// Close releases the connections in reverse opening order.
func (s *OpenedStore) Close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, s.closers[i]())
	}

	s.closers = nil

	return err
}

// OpenEventStore opens the configured engine and creates its table if needed.
func OpenEventStore(ctx context.Context, cfg StoreConfig, obs StoreObservability) (*OpenedStore, error) {
	switch cfg.Driver {
	case DriverMemory:
		es, err := memoryengine.NewEventStore(
			memoryengine.WithLogger(obs.Logger),
			memoryengine.WithContextualLogger(obs.ContextualLogger),
			memoryengine.WithMetrics(obs.Metrics),
			memoryengine.WithTracing(obs.Tracing),
		)
		if err != nil {
			return nil, err
		}

		return &OpenedStore{EventStore: es, Driver: DriverMemory}, nil

	case DriverSQLite:
		return openSQLite(ctx, cfg, obs)

	case DriverPostgres:
		return openPostgres(ctx, cfg, obs)

	default:
		return nil, invalid("unknown store driver %q", cfg.Driver)
	}
}

func openSQLite(ctx context.Context, cfg StoreConfig, obs StoreObservability) (*OpenedStore, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}

	db, err := sqliteengine.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	opened := &OpenedStore{Driver: DriverSQLite, closers: []func() error{db.Close}}

	if err = sqliteengine.CreateSchema(ctx, db, cfg.TableName); err != nil {
		return nil, errors.Join(fmt.Errorf("create sqlite schema: %w", err), opened.Close())
	}

	es, err := sqliteengine.NewEventStore(
		db,
		sqliteengine.WithTableName(cfg.TableName),
		sqliteengine.WithLogger(obs.Logger),
		sqliteengine.WithContextualLogger(obs.ContextualLogger),
		sqliteengine.WithMetrics(obs.Metrics),
		sqliteengine.WithTracing(obs.Tracing),
	)
	if err != nil {
		return nil, errors.Join(err, opened.Close())
	}

	opened.EventStore = es

	return opened, nil
}

func openPostgres(ctx context.Context, cfg StoreConfig, obs StoreObservability) (*OpenedStore, error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(obs.Logger),
		postgresengine.WithContextualLogger(obs.ContextualLogger),
		postgresengine.WithMetrics(obs.Metrics),
		postgresengine.WithTracing(obs.Tracing),
	}

	opened := &OpenedStore{Driver: DriverPostgres}
	ddl := postgresengine.SchemaDDL(cfg.TableName)

	var (
		es  *postgresengine.EventStore
		err error
	)

	switch cfg.PostgresAdapter {
	case AdapterPGXPool:
		pool, openErr := NewPGXPool(ctx, cfg.PostgresDSN, cfg.Pool)
		if openErr != nil {
			return nil, openErr
		}

		opened.closers = append(opened.closers, func() error { pool.Close(); return nil })

		if _, err = pool.Exec(ctx, ddl); err != nil {
			return nil, errors.Join(fmt.Errorf("create postgres schema: %w", err), opened.Close())
		}

		if cfg.PostgresReplicaDSN == "" {
			es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)
			break
		}

		replica, openErr := NewPGXPool(ctx, cfg.PostgresReplicaDSN, cfg.Pool)
		if openErr != nil {
			return nil, errors.Join(openErr, opened.Close())
		}

		opened.closers = append(opened.closers, func() error { replica.Close(); return nil })
		es, err = postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)

	case AdapterSQLDB:
		db, openErr := NewSQLDB(ctx, cfg.PostgresDSN, cfg.Pool)
		if openErr != nil {
			return nil, openErr
		}

		opened.closers = append(opened.closers, db.Close)

		if _, err = db.ExecContext(ctx, ddl); err != nil {
			return nil, errors.Join(fmt.Errorf("create postgres schema: %w", err), opened.Close())
		}

		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case AdapterSQLX:
		db, openErr := NewSQLX(ctx, cfg.PostgresDSN, cfg.Pool)
		if openErr != nil {
			return nil, openErr
		}

		opened.closers = append(opened.closers, db.Close)

		if _, err = db.ExecContext(ctx, ddl); err != nil {
			return nil, errors.Join(fmt.Errorf("create postgres schema: %w", err), opened.Close())
		}

		es, err = postgresengine.NewEventStoreFromSQLX(db, options...)

	default:
		return nil, invalid("unknown postgres adapter %q", cfg.PostgresAdapter)
	}

	if err != nil {
		return nil, errors.Join(err, opened.Close())
	}

	opened.EventStore = es

	return opened, nil
}
