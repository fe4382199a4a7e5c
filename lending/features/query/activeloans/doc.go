// Package activeloans implements the query for the loans a user has not returned yet.
//
// Overdue loans are included, overdue is derived and not a separate state.
package activeloans
