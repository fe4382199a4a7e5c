package librarystats

import (
	"time"
)

// LibraryStats counts only non-removed books. Loans are counted regardless of the book's status.
type LibraryStats struct {
	AsOf            time.Time
	TotalBooks      int
	RemovedBooks    int
	TotalCopies     int
	AvailableCopies int
	ActiveLoans     int
	OverdueLoans    int
	ReturnedLoans   int
	SequenceNumber  uint
}

func (r LibraryStats) GetSequenceNumber() uint {
	return r.SequenceNumber
}
