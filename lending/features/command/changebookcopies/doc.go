// Package changebookcopies implements the admin edit of a book's total number of copies.
//
// The total may never drop below the number of copies currently on loan.
package changebookcopies
