package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvHTTPAddr           = "LIBRARY_HTTP_ADDR"
	EnvLogLevel           = "LIBRARY_LOG_LEVEL"
	EnvStoreDriver        = "LIBRARY_STORE_DRIVER"
	EnvSQLitePath         = "LIBRARY_SQLITE_PATH"
	EnvPostgresDSN        = "LIBRARY_POSTGRES_DSN"
	EnvPostgresReplicaDSN = "LIBRARY_POSTGRES_REPLICA_DSN"
	EnvPostgresAdapter    = "LIBRARY_POSTGRES_ADAPTER"
	EnvOperationTimeout   = "LIBRARY_OPERATION_TIMEOUT"
	EnvDailyFineRate      = "LIBRARY_DAILY_FINE_RATE"
	EnvRateLimitEnabled   = "LIBRARY_RATE_LIMIT_ENABLED"
	EnvRedisAddr          = "LIBRARY_REDIS_ADDR"
	EnvRedisPassword      = "LIBRARY_REDIS_PASSWORD"
	EnvBorrowLimit        = "LIBRARY_BORROW_LIMIT"
	EnvBorrowLimitWindow  = "LIBRARY_BORROW_LIMIT_WINDOW"
	EnvTelemetryEnabled   = "LIBRARY_TELEMETRY_ENABLED"
)

// LoadDotEnv loads the given .env files (default ".env") into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	return nil
}

func applyEnv(cfg *FileConfig) error {
	setString(&cfg.HTTP.Addr, EnvHTTPAddr)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.Store.Driver, EnvStoreDriver)
	setString(&cfg.Store.SQLitePath, EnvSQLitePath)
	setString(&cfg.Store.PostgresDSN, EnvPostgresDSN)
	setString(&cfg.Store.PostgresReplicaDSN, EnvPostgresReplicaDSN)
	setString(&cfg.Store.PostgresAdapter, EnvPostgresAdapter)
	setString(&cfg.Policy.DailyFineRate, EnvDailyFineRate)
	setString(&cfg.RateLimit.RedisAddr, EnvRedisAddr)
	setString(&cfg.RateLimit.RedisPassword, EnvRedisPassword)

	return errors.Join(
		setDuration(&cfg.Engine.OperationTimeout, EnvOperationTimeout),
		setDuration(&cfg.RateLimit.Window, EnvBorrowLimitWindow),
		setInt(&cfg.RateLimit.BorrowLimit, EnvBorrowLimit),
		setBool(&cfg.RateLimit.Enabled, EnvRateLimitEnabled),
		setBool(&cfg.Telemetry.Enabled, EnvTelemetryEnabled),
	)
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}

	*target = d

	return nil
}

func setInt(target *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}

	*target = n

	return nil
}

func setBool(target *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
	}

	*target = b

	return nil
}
