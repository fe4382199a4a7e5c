package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/shell"
)

// QueryHandler runs Query → Project. Observability is added with observable.NewQueryWrapper.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns core.ErrBookNotFound for a book that was never added.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookDetails, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.BookID))
	if err != nil {
		return BookDetails{}, err
	}

	result, found := ProjectBookDetails(history, query, maxSequenceNumber)
	if !found {
		return BookDetails{}, core.ErrBookNotFound
	}

	return result, nil
}
