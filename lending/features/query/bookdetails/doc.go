// Package bookdetails implements the Get Book query of the catalog.
//
// It projects the record of one book from the book's event stream, including removed books,
// so that loan history keeps resolving to a title.
package bookdetails
