package librarystats

import (
	"context"

	"github.com/AntonStoeckl/library-lending/lending/shell"
)

type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

func (h QueryHandler) Handle(ctx context.Context, query Query) (LibraryStats, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return LibraryStats{}, err
	}

	return ProjectLibraryStats(history, query, maxSequenceNumber), nil
}
