// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrappers are applied explicitly at wiring time:
//
//	core := borrowbook.NewCommandHandler(eventStore)
//	handler, err := observable.NewCommandWrapper[borrowbook.Command](
//		core,
//		observable.WithCommandMetrics[borrowbook.Command](metricsCollector),
//		observable.WithCommandTracing[borrowbook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[borrowbook.Command](contextualLogger),
//	)
//
// Every option is optional, a wrapper without options only delegates.
// Business rejections are logged at info level, catalog invariant violations at error level with
// alert=true and an extra counter.
package observable
