package catalogsearch

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

func (h QueryHandler) Handle(ctx context.Context, query Query) (SearchResult, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return SearchResult{}, err
	}

	return ProjectSearchResult(history, query, maxSequenceNumber), nil
}
