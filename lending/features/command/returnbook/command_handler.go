package returnbook

import (
	"context"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/shell"
)

// CommandHandler runs Locate → Query → Decide → Append with retry on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

type Option func(*CommandHandler)

func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle returns ErrLoanNotFound before the first attempt if no loan has the command's LoanID.
// The loan's book never changes, so the lookup is not repeated on retries.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	bookID, err := h.bookOfLoan(ctx, command)
	if err != nil {
		return shell.NewErrorResult(shell.RetryMetrics{Attempts: 1, LastErrorType: shell.ErrorTypeOf(err)}), err
	}

	filter := BuildEventFilter(bookID)

	return shell.HandleWithRetry(ctx, func(attemptCtx context.Context) (core.DecisionResult, error) {
		return shell.QueryDecideAppend(attemptCtx, h.eventStore, filter, func(history core.DomainEvents) core.DecisionResult {
			return Decide(history, command)
		})
	}, h.retryOptions...)
}

func (h CommandHandler) bookOfLoan(ctx context.Context, command Command) (core.BookIDString, error) {
	storableEvents, _, err := h.eventStore.Query(
		eventstore.WithStrongConsistency(ctx),
		BuildLoanLookupFilter(command.LoanID),
	)
	if err != nil {
		return "", err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return "", err
	}

	loan, found := core.FindLoan(history, command.LoanID.String())
	if !found {
		return "", core.ErrLoanNotFound
	}

	return loan.BookID, nil
}
