package bookdetails

import (
	"time"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

// BookDetails is the catalog record with its copy counts.
type BookDetails struct {
	BookID core.BookIDString
	core.BookDetails
	TotalCopies     int
	AvailableCopies int
	ActiveLoans     int
	Removed         bool
	AddedAt         time.Time
	SequenceNumber  uint
}

func (r BookDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
