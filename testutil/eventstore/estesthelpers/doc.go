// Package estesthelpers provides engine-agnostic test helpers for eventstore.EventStore implementations.
//
//	GivenUniqueID: UUID v7 ids for test entities
//	FilterAllEventsForOneBook, FilterAllEventsForOneBookOrUser: typical decision boundaries
//	FixtureBorrowed, FixtureReturned: raw storable events shaped like the lending events
//	RunContractTests: the behavior every engine must show, run from each engine's own tests
package estesthelpers
