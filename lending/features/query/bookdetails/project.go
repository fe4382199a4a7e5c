package bookdetails

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectBookDetails returns false if the book was never added.
func ProjectBookDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (BookDetails, bool) {
	book, found := core.ProjectBook(history, query.BookID.String())
	if !found {
		return BookDetails{}, false
	}

	return BookDetails{
		BookID:          book.BookID,
		BookDetails:     book.BookDetails,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies(),
		ActiveLoans:     book.ActiveLoans,
		Removed:         book.Removed,
		AddedAt:         book.AddedAt,
		SequenceNumber:  maxSequenceNumber,
	}, true
}

func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
