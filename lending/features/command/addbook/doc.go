// Package addbook implements the Add Book use case of the catalog.
//
// An admin adds a book with its bibliographic data and a number of physical copies.
// The decision runs on all BookAddedToCatalog and BookRemovedFromCatalog events, because a duplicate
// is detected across the whole catalog: same ISBN, or same title, author, publisher, year and category.
// Adding the same BookID again with identical data is idempotent.
package addbook
