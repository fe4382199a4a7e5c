package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-lending/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-lending/lending/engine"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	"github.com/AntonStoeckl/library-lending/lending/shell/config"
	"github.com/AntonStoeckl/library-lending/lending/shell/httpapi"
	"github.com/AntonStoeckl/library-lending/lending/shell/ratelimit"
)

const instrumentationName = "github.com/AntonStoeckl/library-lending"

// app owns everything the process opens, close releases it in reverse order.
type app struct {
	server    *http.Server
	engine    *engine.Engine
	store     *config.OpenedStore
	limiter   *ratelimit.FixedWindowLimiter
	telemetry *config.TelemetryProviders
}

func newApp(ctx context.Context, cfg config.FileConfig, logger *slog.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.close(context.Background()))
		}
	}()

	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())
	storeObs := config.StoreObservability{Logger: logger, ContextualLogger: contextualLogger}
	engineOptions := []engine.Option{
		engine.WithOperationTimeout(cfg.Engine.OperationTimeout),
		engine.WithRetryOptions(
			shell.WithMaxAttempts(cfg.Engine.RetryMaxAttempts),
			shell.WithBaseDelay(cfg.Engine.RetryBaseDelay),
			shell.WithJitterFactor(cfg.Engine.RetryJitter),
		),
		engine.WithLogging(logger),
		engine.WithContextualLogging(contextualLogger),
	}

	if cfg.Telemetry.Enabled {
		if a.telemetry, err = config.NewTelemetryProviders(ctx, cfg.Telemetry.ServiceName); err != nil {
			return nil, err
		}

		metrics := oteladapters.NewMetricsCollector(otel.Meter(instrumentationName))
		tracing := oteladapters.NewTracingCollector(otel.Tracer(instrumentationName))

		storeObs.Metrics = metrics
		storeObs.Tracing = tracing
		engineOptions = append(engineOptions, engine.WithMetrics(metrics), engine.WithTracing(tracing))
	}

	provider, err := cfg.Policy.Provider()
	if err != nil {
		return nil, err
	}

	engineOptions = append(engineOptions, engine.WithPolicy(provider))

	if a.store, err = config.OpenEventStore(ctx, cfg.Store, storeObs); err != nil {
		return nil, err
	}

	if a.engine, err = engine.New(a.store.EventStore, engineOptions...); err != nil {
		return nil, err
	}

	apiConfig := httpapi.Config{Engine: a.engine, Logger: logger}

	if cfg.RateLimit.Enabled {
		a.limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RateLimit.RedisAddr,
			cfg.RateLimit.RedisPassword,
			cfg.RateLimit.Prefix,
			cfg.RateLimit.BorrowLimit,
			cfg.RateLimit.Window,
		)
		if err != nil {
			return nil, err
		}

		apiConfig.BorrowLimiter = a.limiter
	}

	api, err := httpapi.New(apiConfig)
	if err != nil {
		return nil, err
	}

	a.server = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return a, nil
}

func (a *app) close(ctx context.Context) error {
	var err error

	if a.limiter != nil {
		err = errors.Join(err, a.limiter.Close())
	}

	if a.store != nil {
		err = errors.Join(err, a.store.Close())
	}

	if a.telemetry != nil {
		err = errors.Join(err, a.telemetry.Shutdown(ctx))
	}

	return err
}
