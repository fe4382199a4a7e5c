package core

import (
	"time"
)

// Book is the catalog record with its derived copy counts.
type Book struct {
	BookID BookIDString
	BookDetails
	TotalCopies int
	ActiveLoans int
	Removed     bool
	AddedAt     time.Time
}

// AvailableCopies is total minus active loans. A negative value means the history is corrupt.
func (b Book) AvailableCopies() int {
	return b.TotalCopies - b.ActiveLoans
}

// IsConsistent reports whether 0 ≤ available ≤ total holds.
func (b Book) IsConsistent() bool {
	return b.TotalCopies >= 0 && b.ActiveLoans >= 0 && b.AvailableCopies() >= 0
}

// ProjectCatalog folds the history into books in the order they were added.
// A re-added BookID keeps its first record.
func ProjectCatalog(history DomainEvents) []Book {
	books := make([]Book, 0)
	index := make(map[BookIDString]int)
	activeLoanBooks := make(map[LoanIDString]BookIDString)
	seenLoans := make(map[LoanIDString]struct{})

	for _, event := range history {
		switch e := event.(type) {
		case BookAddedToCatalog:
			if _, exists := index[e.BookID]; exists {
				continue
			}

			index[e.BookID] = len(books)
			books = append(books, Book{
				BookID:      e.BookID,
				BookDetails: e.Details(),
				TotalCopies: e.TotalCopies,
				AddedAt:     e.OccurredAt,
			})

		case BookCopiesChanged:
			if i, exists := index[e.BookID]; exists {
				books[i].TotalCopies = e.TotalCopies
			}

		case BookRemovedFromCatalog:
			if i, exists := index[e.BookID]; exists {
				books[i].Removed = true
			}

		case BookBorrowed:
			if _, seen := seenLoans[e.LoanID]; seen {
				continue
			}

			seenLoans[e.LoanID] = struct{}{}
			activeLoanBooks[e.LoanID] = e.BookID
			if i, exists := index[e.BookID]; exists {
				books[i].ActiveLoans++
			}

		case BookReturned:
			bookID, open := activeLoanBooks[e.LoanID]
			if !open {
				continue
			}

			delete(activeLoanBooks, e.LoanID)
			if i, exists := index[bookID]; exists {
				books[i].ActiveLoans--
			}
		}
	}

	return books
}

// ProjectBook returns the record of one book, false if it was never added.
func ProjectBook(history DomainEvents, bookID BookIDString) (Book, bool) {
	for _, book := range ProjectCatalog(history) {
		if book.BookID == bookID {
			return book, true
		}
	}

	return Book{}, false
}
