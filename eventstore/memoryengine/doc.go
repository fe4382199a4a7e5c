// Package memoryengine is an in-process eventstore.EventStore.
//
// Events live in a slice guarded by a sync.RWMutex. Append evaluates the filter and appends under
// the write lock, which makes the check and the write one atomic unit. It is meant for tests,
// demos and single-process deployments, nothing is persisted.
package memoryengine
