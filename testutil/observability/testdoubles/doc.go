// Package testdoubles provides spies for the observability ports in package eventstore:
//   - LogHandlerSpy: a slog.Handler capturing records
//   - ContextualLoggerSpy: captures context-aware log calls
//   - MetricsCollectorSpy: captures duration, counter and value records
//   - TracingCollectorSpy: captures started and finished spans
//
// All spies are safe for concurrent use.
package testdoubles
