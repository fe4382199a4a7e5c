package config

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceVersion = "1.0.0"

// TelemetryProviders holds the OpenTelemetry SDK providers of the process.
// Metrics are pulled through MetricReader, spans stay in-process unless span processors are registered.
type TelemetryProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	MetricReader   *sdkmetric.ManualReader
	Resource       *resource.Resource
}

// NewTelemetryProviders creates the providers and registers them as the otel globals.
func NewTelemetryProviders(ctx context.Context, serviceName string, spanProcessors ...sdktrace.SpanProcessor) (
	*TelemetryProviders,
	error,
) {

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	traceOptions := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, sp := range spanProcessors {
		traceOptions = append(traceOptions, sdktrace.WithSpanProcessor(sp))
	}

	tracerProvider := sdktrace.NewTracerProvider(traceOptions...)

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &TelemetryProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		MetricReader:   reader,
		Resource:       res,
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *TelemetryProviders) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
