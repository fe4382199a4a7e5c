// Package returnbook implements the Return use case of the lending engine.
//
// The handler first locates the loan by its LoanID to learn the book,
// then decides on the book's consistency boundary like Borrow does.
// The fine is computed at the return instant and frozen into BookReturned.
package returnbook
