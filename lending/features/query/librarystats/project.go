package librarystats

import (
	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

func ProjectLibraryStats(history core.DomainEvents, query Query, maxSequenceNumber uint) LibraryStats {
	stats := LibraryStats{
		AsOf:           query.AsOf,
		SequenceNumber: maxSequenceNumber,
	}

	for _, book := range core.ProjectCatalog(history) {
		if book.Removed {
			stats.RemovedBooks++
			continue
		}

		stats.TotalBooks++
		stats.TotalCopies += book.TotalCopies
		stats.AvailableCopies += book.AvailableCopies()
	}

	for _, loan := range core.ProjectLoans(history) {
		switch {
		case loan.Returned:
			stats.ReturnedLoans++
		case loan.IsOverdue(query.AsOf):
			stats.ActiveLoans++
			stats.OverdueLoans++
		default:
			stats.ActiveLoans++
		}
	}

	return stats
}

// BuildEventFilter matches all events, the stats span the whole catalog and ledger.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().MatchingAnyEvent()
}
