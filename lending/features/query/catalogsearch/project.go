package catalogsearch

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectSearchResult filters the projected catalog by the query.
//
// Query Logic:
//
//	INCLUDES: non-removed books whose title, author or category contains the text
//	EXCLUDES: removed books, books of another category if a category is given,
//	          books without an available copy if AvailableOnly is set
//	ORDER: title ascending ignoring case, BookID on ties
func ProjectSearchResult(history core.DomainEvents, query Query, maxSequenceNumber uint) SearchResult {
	text := strings.ToLower(strings.TrimSpace(query.Text))
	category := strings.TrimSpace(query.Category)

	books := make([]BookInfo, 0)

	for _, book := range core.ProjectCatalog(history) {
		if book.Removed {
			continue
		}

		if category != "" && !strings.EqualFold(book.Category, category) {
			continue
		}

		if text != "" && !containsText(book, text) {
			continue
		}

		if query.AvailableOnly && book.AvailableCopies() <= 0 {
			continue
		}

		books = append(books, BookInfo{
			BookID:          book.BookID,
			ISBN:            book.ISBN,
			Title:           book.Title,
			Author:          book.Author,
			Category:        book.Category,
			Year:            book.Year,
			Rating:          book.Rating,
			TotalCopies:     book.TotalCopies,
			AvailableCopies: book.AvailableCopies(),
		})
	}

	slices.SortFunc(books, func(a, b BookInfo) int {
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c
		}

		return strings.Compare(a.BookID, b.BookID)
	})

	return SearchResult{
		Books:          books,
		Count:          len(books),
		SequenceNumber: maxSequenceNumber,
	}
}

func containsText(book core.Book, lowerText string) bool {
	for _, field := range []string{book.Title, book.Author, book.Category} {
		if strings.Contains(strings.ToLower(field), lowerText) {
			return true
		}
	}

	return false
}

// BuildEventFilter selects every event that changes a book's record or its availability.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookCopiesChangedEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookBorrowedEventType,
			core.BookReturnedEventType,
		).
		Finalize()
}
