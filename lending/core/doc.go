// Package core contains the pure domain of the lending service: domain events, decision results,
// roles, the fine rule and the book, loan and recommendation projections shared by the features.
//
// Nothing in here does I/O. Features decide on a slice of DomainEvent and return a DecisionResult,
// the shell persists it.
package core
