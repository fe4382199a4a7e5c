package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/changebookcopies"
	"github.com/AntonStoeckl/library-lending/lending/features/command/removebook"
	"github.com/AntonStoeckl/library-lending/lending/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/lending/features/query/catalogsearch"
)

// NewBook is the input of AddBook. A zero BookID is replaced by a new one,
// a caller that wants to retry safely supplies its own.
type NewBook struct {
	BookID      uuid.UUID
	Details     core.BookDetails
	TotalCopies int
}

// AddBook adds a book to the catalog and returns its BookID.
func (e *Engine) AddBook(ctx context.Context, book NewBook) (uuid.UUID, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	bookID := book.BookID
	if bookID == uuid.Nil {
		var err error
		if bookID, err = uuid.NewV7(); err != nil {
			return uuid.Nil, err
		}
	}

	_, err := e.addBook.Handle(ctx, addbook.BuildCommand(bookID, book.Details, book.TotalCopies, e.Now()))
	if err != nil {
		return uuid.Nil, translateError(err)
	}

	return bookID, nil
}

// ChangeTotalCopies sets the number of physical copies, never below the copies on loan.
func (e *Engine) ChangeTotalCopies(ctx context.Context, bookID uuid.UUID, totalCopies int) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	_, err := e.changeBookCopies.Handle(ctx, changebookcopies.BuildCommand(bookID, totalCopies, e.Now()))

	return translateError(err)
}

// RemoveBook soft deletes a book without active loans. Removing it again is a no-op.
func (e *Engine) RemoveBook(ctx context.Context, bookID uuid.UUID) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	_, err := e.removeBook.Handle(ctx, removebook.BuildCommand(bookID, e.Now()))

	return translateError(err)
}

// GetBook returns removed books too, check BookDetails.Removed.
func (e *Engine) GetBook(ctx context.Context, bookID uuid.UUID) (bookdetails.BookDetails, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.bookDetails.Handle(ctx, bookdetails.BuildQuery(bookID))

	return result, translateError(err)
}

// SearchCatalog matches text against title, author and category, pass catalogsearch.OnlyAvailable()
// to skip books with all copies lent.
func (e *Engine) SearchCatalog(
	ctx context.Context,
	text string,
	category string,
	opts ...catalogsearch.QueryOption,
) (catalogsearch.SearchResult, error) {

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.catalogSearch.Handle(ctx, catalogsearch.BuildQuery(text, category, opts...))

	return result, translateError(err)
}
