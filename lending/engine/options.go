package engine

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending/lending/policy"
	"github.com/AntonStoeckl/library-lending/lending/shell"
)

const (
	DefaultOperationTimeout = 2 * time.Second
)

var (
	ErrNilEventStore           = errors.New("event store must not be nil")
	ErrNilClock                = errors.New("clock must not be nil")
	ErrNilPolicy               = errors.New("policy provider must not be nil")
	ErrInvalidOperationTimeout = errors.New("operation timeout must be positive")
)

// Clock supplies "now" for all commands and for queries without an explicit reference instant.
type Clock func() time.Time

type settings struct {
	clock            Clock
	operationTimeout time.Duration
	policy           *policy.Provider
	retryOptions     []shell.RetryOption
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures the Engine.
type Option func(*settings) error

func WithClock(clock Clock) Option {
	return func(s *settings) error {
		if clock == nil {
			return ErrNilClock
		}

		s.clock = clock

		return nil
	}
}

// WithOperationTimeout bounds every engine call including all retries.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(s *settings) error {
		if timeout <= 0 {
			return ErrInvalidOperationTimeout
		}

		s.operationTimeout = timeout

		return nil
	}
}

func WithPolicy(provider *policy.Provider) Option {
	return func(s *settings) error {
		if provider == nil {
			return ErrNilPolicy
		}

		s.policy = provider

		return nil
	}
}

// WithRetryOptions configures the backoff of all command handlers on concurrency conflicts.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(s *settings) error {
		s.retryOptions = opts
		return nil
	}
}

func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *settings) error {
		s.metricsCollector = collector
		return nil
	}
}

func WithTracing(collector shell.TracingCollector) Option {
	return func(s *settings) error {
		s.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging takes precedence over WithLogging.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(s *settings) error {
		s.contextualLogger = logger
		return nil
	}
}

func WithLogging(logger shell.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

func defaultSettings() settings {
	return settings{
		clock:            func() time.Time { return time.Now().UTC() },
		operationTimeout: DefaultOperationTimeout,
		policy:           policy.Default(),
	}
}
