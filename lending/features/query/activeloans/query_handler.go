package activeloans

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

func (h QueryHandler) Handle(ctx context.Context, query Query) (ActiveLoans, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.UserID))
	if err != nil {
		return ActiveLoans{}, err
	}

	return ProjectActiveLoans(history, query, maxSequenceNumber), nil
}
