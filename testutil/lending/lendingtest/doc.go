// Package lendingtest has the shared givens of the lending feature tests:
// a fresh in-memory event store, a fixed clock, history builders and loan terms.
package lendingtest
