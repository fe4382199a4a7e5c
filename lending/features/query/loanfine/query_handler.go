package loanfine

import (
	"context"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/shell"
)

type QueryHandler struct {
	eventStore shell.QueriesEvents
}

func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns core.ErrLoanNotFound for an unknown loan.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanFine, error) {
	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, BuildEventFilter(query.LoanID))
	if err != nil {
		return LoanFine{}, err
	}

	result, found := ProjectLoanFine(history, query, maxSequenceNumber)
	if !found {
		return LoanFine{}, core.ErrLoanNotFound
	}

	return result, nil
}
