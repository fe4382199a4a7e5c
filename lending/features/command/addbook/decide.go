package addbook

import (
	"fmt"
	"strings"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the book can be added.
//
// Business Rules:
//
//	GIVEN: the catalog with all added and removed books
//	WHEN: AddBook is received
//	THEN: BookAddedToCatalog is generated
//	ERROR: ErrInvalidBook if ISBN or title is empty, or the rating is outside 0..MaxRating
//	ERROR: ErrInvalidCopies if total copies is negative
//	ERROR: ErrDuplicateBook if the BookID exists with other data or another copy count,
//	       or a non-removed book has the same ISBN or the same bibliographic key
//	IDEMPOTENCY: the BookID exists with identical data and copies
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if strings.TrimSpace(command.Details.ISBN) == "" || strings.TrimSpace(command.Details.Title) == "" {
		return core.RejectedDecision(fmt.Errorf("%w: ISBN and title are required", core.ErrInvalidBook))
	}

	if command.Details.Rating < 0 || command.Details.Rating > core.MaxRating {
		return core.RejectedDecision(
			fmt.Errorf("%w: rating %d is outside 0..%d", core.ErrInvalidBook, command.Details.Rating, core.MaxRating),
		)
	}

	if command.TotalCopies < 0 {
		return core.RejectedDecision(fmt.Errorf("%w: %d", core.ErrInvalidCopies, command.TotalCopies))
	}

	bookID := command.BookID.String()

	for _, book := range core.ProjectCatalog(history) {
		if book.BookID == bookID {
			if book.BookDetails == command.Details && book.TotalCopies == command.TotalCopies && !book.Removed {
				return core.IdempotentDecision()
			}

			return core.RejectedDecision(fmt.Errorf("%w: book %s exists", core.ErrDuplicateBook, bookID))
		}

		if book.Removed {
			continue
		}

		if strings.EqualFold(strings.TrimSpace(book.ISBN), strings.TrimSpace(command.Details.ISBN)) {
			return core.RejectedDecision(fmt.Errorf("%w: ISBN %s", core.ErrDuplicateBook, command.Details.ISBN))
		}

		if sameBibliographicKey(book.BookDetails, command.Details) {
			return core.RejectedDecision(fmt.Errorf("%w: %q by %s", core.ErrDuplicateBook, command.Details.Title, command.Details.Author))
		}
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(command.BookID, command.Details, command.TotalCopies, command.OccurredAt),
	)
}

func sameBibliographicKey(a, b core.BookDetails) bool {
	same := func(x, y string) bool {
		return strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y))
	}

	return same(a.Title, b.Title) &&
		same(a.Author, b.Author) &&
		same(a.Publisher, b.Publisher) &&
		a.Year == b.Year &&
		same(a.Category, b.Category)
}

// BuildEventFilter selects the catalog membership events of all books.
// Copy changes and loans are irrelevant for duplicate detection.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
		).
		Finalize()
}
