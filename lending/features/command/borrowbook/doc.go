// Package borrowbook implements the Borrow use case of the lending engine.
//
// The decision runs on the consistency boundary of the book, i.e. every event carrying its BookID.
// That boundary covers the copy count, the per-user active loan check and the catalog status,
// so the conditional append makes check and decrement one atomic unit.
// Loan period and daily fine rate are resolved by the caller and baked into BookBorrowed.
package borrowbook
