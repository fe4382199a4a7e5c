package core

import (
	"time"

	"github.com/google/uuid"
)

const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog adds a book with a number of physical copies.
type BookAddedToCatalog struct {
	BookID      BookIDString
	ISBN        ISBNString
	Title       string
	Author      string
	Publisher   string
	Year        int
	Category    string
	Description string
	Rating      int
	TotalCopies int
	OccurredAt  OccurredAt
}

// MaxRating is the highest librarian rating a book can carry, 0 means unrated.
const MaxRating = 5

// BookDetails is the bibliographic part of BookAddedToCatalog.
type BookDetails struct {
	ISBN        ISBNString
	Title       string
	Author      string
	Publisher   string
	Year        int
	Category    string
	Description string
	Rating      int
}

func BuildBookAddedToCatalog(
	bookID uuid.UUID,
	details BookDetails,
	totalCopies int,
	occurredAt time.Time,
) BookAddedToCatalog {

	return BookAddedToCatalog{
		BookID:      bookID.String(),
		ISBN:        details.ISBN,
		Title:       details.Title,
		Author:      details.Author,
		Publisher:   details.Publisher,
		Year:        details.Year,
		Category:    details.Category,
		Description: details.Description,
		Rating:      details.Rating,
		TotalCopies: totalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e BookAddedToCatalog) EventType() string {
	return BookAddedToCatalogEventType
}

func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e BookAddedToCatalog) Details() BookDetails {
	return BookDetails{
		ISBN:        e.ISBN,
		Title:       e.Title,
		Author:      e.Author,
		Publisher:   e.Publisher,
		Year:        e.Year,
		Category:    e.Category,
		Description: e.Description,
		Rating:      e.Rating,
	}
}
