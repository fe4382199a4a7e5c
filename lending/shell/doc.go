// Package shell is the imperative shell around the lending core.
//
// It maps domain events to storable events and back, carries event metadata, retries commands
// on concurrency conflicts and holds the shared observability vocabulary of the command and
// query handlers. Features depend on it, it never depends on a feature.
package shell
