package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	AdapterPGXPool = "pgxpool"
	AdapterSQLDB   = "sqldb"
	AdapterSQLX    = "sqlx"
)

var ErrInvalidConfig = errors.New("invalid config")

// FileConfig is the complete service configuration.
type FileConfig struct {
	LogLevel  string          `yaml:"logLevel"`
	HTTP      HTTPConfig      `yaml:"http"`
	Store     StoreConfig     `yaml:"store"`
	Engine    EngineConfig    `yaml:"engine"`
	Policy    PolicyConfig    `yaml:"policy"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	TableName  string `yaml:"tableName"`
	SQLitePath string `yaml:"sqlitePath"`

	PostgresDSN        string     `yaml:"postgresDSN"`
	PostgresReplicaDSN string     `yaml:"postgresReplicaDSN"`
	PostgresAdapter    string     `yaml:"postgresAdapter"`
	Pool               PoolLimits `yaml:"pool"`
}

// PoolLimits apply to every Postgres adapter. Zero values keep the defaults.
type PoolLimits struct {
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MinIdleConns    int           `yaml:"minIdleConns"`
	MaxConnLifetime time.Duration `yaml:"maxConnLifetime"`
	MaxConnIdleTime time.Duration `yaml:"maxConnIdleTime"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout"`
}

type EngineConfig struct {
	OperationTimeout time.Duration `yaml:"operationTimeout"`
	RetryMaxAttempts int           `yaml:"retryMaxAttempts"`
	RetryBaseDelay   time.Duration `yaml:"retryBaseDelay"`
	RetryJitter      float64       `yaml:"retryJitter"`
}

type RateLimitConfig struct {
	Enabled       bool          `yaml:"enabled"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	Prefix        string        `yaml:"prefix"`
	BorrowLimit   int           `yaml:"borrowLimit"`
	Window        time.Duration `yaml:"window"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"serviceName"`
}

// Defaults returns a configuration that runs without any external infrastructure.
func Defaults() FileConfig {
	return FileConfig{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:          DriverMemory,
			TableName:       "events",
			SQLitePath:      "data/library.db",
			PostgresAdapter: AdapterPGXPool,
		},
		Engine: EngineConfig{
			OperationTimeout: 2 * time.Second,
			RetryMaxAttempts: 6,
			RetryBaseDelay:   10 * time.Millisecond,
			RetryJitter:      0.3,
		},
		RateLimit: RateLimitConfig{
			Prefix:      "library:ratelimit",
			BorrowLimit: 10,
			Window:      time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "libraryd",
		},
	}
}

// Load starts from Defaults, applies the YAML file if path is not empty, then the environment.
func Load(path string) (FileConfig, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}

		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate reports the first problem found.
func (c FileConfig) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return invalid("store.sqlitePath is required for the sqlite driver (or LIBRARY_SQLITE_PATH)")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return invalid("store.postgresDSN is required for the postgres driver (or LIBRARY_POSTGRES_DSN)")
		}

		switch c.Store.PostgresAdapter {
		case AdapterPGXPool, AdapterSQLDB, AdapterSQLX:
		default:
			return invalid("store.postgresAdapter must be one of pgxpool, sqldb, sqlx, got %q", c.Store.PostgresAdapter)
		}

		if c.Store.PostgresReplicaDSN != "" && c.Store.PostgresAdapter != AdapterPGXPool {
			return invalid("store.postgresReplicaDSN is only supported with the pgxpool adapter")
		}
	default:
		return invalid("store.driver must be one of memory, sqlite, postgres, got %q", c.Store.Driver)
	}

	if c.Store.TableName == "" {
		return invalid("store.tableName must not be empty")
	}

	if c.HTTP.Addr == "" {
		return invalid("http.addr is required (or LIBRARY_HTTP_ADDR)")
	}

	if c.Engine.OperationTimeout <= 0 {
		return invalid("engine.operationTimeout must be positive")
	}

	if c.Engine.RetryMaxAttempts < 1 {
		return invalid("engine.retryMaxAttempts must be at least 1")
	}

	if c.Engine.RetryJitter < 0 || c.Engine.RetryJitter > 1 {
		return invalid("engine.retryJitter must be between 0 and 1")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RedisAddr == "" {
			return invalid("rateLimit.redisAddr is required when rate limiting is enabled (or LIBRARY_REDIS_ADDR)")
		}

		if c.RateLimit.BorrowLimit <= 0 || c.RateLimit.Window <= 0 {
			return invalid("rateLimit.borrowLimit and rateLimit.window must be positive")
		}
	}

	if _, err := c.Policy.Provider(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
