// Package removebook implements the soft delete of a book from the catalog.
//
// A removed book keeps its record and its loan history, it can no longer be borrowed.
// Removal is refused while any copy is on loan.
package removebook
