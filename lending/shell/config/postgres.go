package config

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	postgresDriverName = "postgres"

	isolationParam = "default_transaction_isolation"
	serializable   = "serializable"

	defaultMaxOpenConnections = 50
	defaultMinIdleConnections = 2
	defaultMaxConnLifetime    = time.Hour
	defaultMaxConnIdleTime    = time.Minute * 5
	defaultHealthCheckPeriod  = time.Minute
	defaultConnectTimeout     = time.Second * 5
)

// SerializableDSN adds default_transaction_isolation=serializable to a URL or keyword/value DSN.
// Both pgx and lib/pq send unknown DSN parameters to the server as run-time parameters, so every
// connection of the pool starts its transactions at SERIALIZABLE.
func SerializableDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres dsn: %w", err)
		}

		q := u.Query()
		q.Set(isolationParam, serializable)
		u.RawQuery = q.Encode()

		return u.String(), nil
	}

	if strings.Contains(dsn, isolationParam+"=") {
		return dsn, nil
	}

	return strings.TrimSpace(dsn + " " + isolationParam + "=" + serializable), nil
}

func (l PoolLimits) withDefaults() PoolLimits {
	if l.MaxOpenConns <= 0 {
		l.MaxOpenConns = defaultMaxOpenConnections
	}

	if l.MinIdleConns <= 0 {
		l.MinIdleConns = defaultMinIdleConnections
	}

	if l.MaxConnLifetime <= 0 {
		l.MaxConnLifetime = defaultMaxConnLifetime
	}

	if l.MaxConnIdleTime <= 0 {
		l.MaxConnIdleTime = defaultMaxConnIdleTime
	}

	if l.ConnectTimeout <= 0 {
		l.ConnectTimeout = defaultConnectTimeout
	}

	return l
}

// PGXPoolConfig parses the DSN into a pgxpool.Config with the pool limits applied.
func PGXPoolConfig(dsn string, limits PoolLimits) (*pgxpool.Config, error) {
	serializableDSN, err := SerializableDSN(dsn)
	if err != nil {
		return nil, err
	}

	dbConfig, err := pgxpool.ParseConfig(serializableDSN)
	if err != nil {
		return nil, fmt.Errorf("parse pgxpool config: %w", err)
	}

	limits = limits.withDefaults()
	dbConfig.MaxConns = int32(limits.MaxOpenConns) //nolint:gosec // small configured value
	dbConfig.MinConns = int32(limits.MinIdleConns) //nolint:gosec // small configured value
	dbConfig.MaxConnLifetime = limits.MaxConnLifetime
	dbConfig.MaxConnIdleTime = limits.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = limits.ConnectTimeout

	return dbConfig, nil
}

// NewPGXPool opens and pings a pgx pool.
func NewPGXPool(ctx context.Context, dsn string, limits PoolLimits) (*pgxpool.Pool, error) {
	dbConfig, err := PGXPoolConfig(dsn, limits)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", pingErr)
	}

	return pool, nil
}

// NewSQLDB opens and pings a database/sql pool using lib/pq.
func NewSQLDB(ctx context.Context, dsn string, limits PoolLimits) (*sql.DB, error) {
	serializableDSN, err := SerializableDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(postgresDriverName, serializableDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	limits = limits.withDefaults()
	db.SetMaxOpenConns(limits.MaxOpenConns)
	db.SetMaxIdleConns(limits.MinIdleConns)
	db.SetConnMaxLifetime(limits.MaxConnLifetime)
	db.SetConnMaxIdleTime(limits.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, limits.ConnectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", pingErr)
	}

	return db, nil
}

// NewSQLX opens and pings a sqlx pool using lib/pq.
func NewSQLX(ctx context.Context, dsn string, limits PoolLimits) (*sqlx.DB, error) {
	db, err := NewSQLDB(ctx, dsn, limits)
	if err != nil {
		return nil, err
	}

	return sqlx.NewDb(db, postgresDriverName), nil
}
