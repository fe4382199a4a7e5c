// Package oteladapters implements the eventstore observability ports on top of OpenTelemetry.
//
// The lending service wires these into the engines and the command and query handlers.
// Tests use the sdk in-memory readers and exporters instead.
package oteladapters
