// Package instrumentation holds the logging, metrics and tracing plumbing shared by all engines.
// Every collaborator is optional, a zero Observer does nothing.
package instrumentation
