package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/changebookcopies"
	"github.com/AntonStoeckl/library-lending/lending/features/command/deciderecommendation"
	"github.com/AntonStoeckl/library-lending/lending/features/command/recommendbook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/removebook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/lending/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/allloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending/lending/features/query/catalogsearch"
	"github.com/AntonStoeckl/library-lending/lending/features/query/librarystats"
	"github.com/AntonStoeckl/library-lending/lending/features/query/loanfine"
	"github.com/AntonStoeckl/library-lending/lending/features/query/outstandingfines"
	"github.com/AntonStoeckl/library-lending/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/recommendations"
	"github.com/AntonStoeckl/library-lending/lending/features/query/studentloans"
	"github.com/AntonStoeckl/library-lending/lending/policy"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	"github.com/AntonStoeckl/library-lending/lending/shell/observable"
)

// Engine is safe for concurrent use, all state lives in the event store.
type Engine struct {
	clock            Clock
	operationTimeout time.Duration
	policy           *policy.Provider

	addBook          shell.CoreCommandHandler[addbook.Command]
	changeBookCopies shell.CoreCommandHandler[changebookcopies.Command]
	removeBook       shell.CoreCommandHandler[removebook.Command]
	borrowBook       shell.CoreCommandHandler[borrowbook.Command]
	returnBook       shell.CoreCommandHandler[returnbook.Command]

	recommendBook        shell.CoreCommandHandler[recommendbook.Command]
	decideRecommendation shell.CoreCommandHandler[deciderecommendation.Command]

	bookDetails      shell.CoreQueryHandler[bookdetails.Query, bookdetails.BookDetails]
	catalogSearch    shell.CoreQueryHandler[catalogsearch.Query, catalogsearch.SearchResult]
	activeLoans      shell.CoreQueryHandler[activeloans.Query, activeloans.ActiveLoans]
	allLoans         shell.CoreQueryHandler[allloans.Query, allloans.LoansOfUser]
	loanFine         shell.CoreQueryHandler[loanfine.Query, loanfine.LoanFine]
	overdueLoans     shell.CoreQueryHandler[overdueloans.Query, overdueloans.OverdueLoans]
	libraryStats     shell.CoreQueryHandler[librarystats.Query, librarystats.LibraryStats]
	outstandingFines shell.CoreQueryHandler[outstandingfines.Query, outstandingfines.OutstandingFines]
	studentLoans     shell.CoreQueryHandler[studentloans.Query, studentloans.StudentLoans]
	recommendations  shell.CoreQueryHandler[recommendations.Query, recommendations.Recommendations]
}

// New builds an Engine on the given event store. Without options it uses the system clock in UTC,
// the default loan policy and DefaultOperationTimeout.
func New(eventStore shell.EventStore, opts ...Option) (*Engine, error) {
	if eventStore == nil {
		return nil, ErrNilEventStore
	}

	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		clock:            s.clock,
		operationTimeout: s.operationTimeout,
		policy:           s.policy,
	}

	var err error

	if e.addBook, err = wrapCommand[addbook.Command](
		addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.changeBookCopies, err = wrapCommand[changebookcopies.Command](
		changebookcopies.NewCommandHandler(eventStore, changebookcopies.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.removeBook, err = wrapCommand[removebook.Command](
		removebook.NewCommandHandler(eventStore, removebook.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.borrowBook, err = wrapCommand[borrowbook.Command](
		borrowbook.NewCommandHandler(eventStore, borrowbook.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.returnBook, err = wrapCommand[returnbook.Command](
		returnbook.NewCommandHandler(eventStore, returnbook.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.recommendBook, err = wrapCommand[recommendbook.Command](
		recommendbook.NewCommandHandler(eventStore, recommendbook.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.decideRecommendation, err = wrapCommand[deciderecommendation.Command](
		deciderecommendation.NewCommandHandler(eventStore, deciderecommendation.WithRetryOptions(s.retryOptions...)), s,
	); err != nil {
		return nil, err
	}

	if e.bookDetails, err = wrapQuery[bookdetails.Query, bookdetails.BookDetails](
		bookdetails.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.catalogSearch, err = wrapQuery[catalogsearch.Query, catalogsearch.SearchResult](
		catalogsearch.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.activeLoans, err = wrapQuery[activeloans.Query, activeloans.ActiveLoans](
		activeloans.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.allLoans, err = wrapQuery[allloans.Query, allloans.LoansOfUser](
		allloans.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.loanFine, err = wrapQuery[loanfine.Query, loanfine.LoanFine](
		loanfine.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.overdueLoans, err = wrapQuery[overdueloans.Query, overdueloans.OverdueLoans](
		overdueloans.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.libraryStats, err = wrapQuery[librarystats.Query, librarystats.LibraryStats](
		librarystats.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.outstandingFines, err = wrapQuery[outstandingfines.Query, outstandingfines.OutstandingFines](
		outstandingfines.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.studentLoans, err = wrapQuery[studentloans.Query, studentloans.StudentLoans](
		studentloans.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	if e.recommendations, err = wrapQuery[recommendations.Query, recommendations.Recommendations](
		recommendations.NewQueryHandler(eventStore), s,
	); err != nil {
		return nil, err
	}

	return e, nil
}

// Now is the engine's clock, truncated like the event timestamps.
func (e *Engine) Now() time.Time {
	return core.ToOccurredAt(e.clock())
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.operationTimeout)
}

// translateError maps transient infrastructure failures to the engine's error kinds.
// Business errors pass unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return fmt.Errorf("%w: %w", core.ErrContention, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", core.ErrTimeout, err)
	default:
		return err
	}
}

func wrapCommand[C shell.Command](handler shell.CoreCommandHandler[C], s settings) (shell.CoreCommandHandler[C], error) {
	return observable.NewCommandWrapper[C](
		handler,
		observable.WithCommandMetrics[C](s.metricsCollector),
		observable.WithCommandTracing[C](s.tracingCollector),
		observable.WithCommandContextualLogging[C](s.contextualLogger),
		observable.WithCommandLogging[C](s.logger),
	)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](
	handler shell.CoreQueryHandler[Q, R],
	s settings,
) (shell.CoreQueryHandler[Q, R], error) {

	return observable.NewQueryWrapper[Q, R](
		handler,
		observable.WithQueryMetrics[Q, R](s.metricsCollector),
		observable.WithQueryTracing[Q, R](s.tracingCollector),
		observable.WithQueryContextualLogging[Q, R](s.contextualLogger),
		observable.WithQueryLogging[Q, R](s.logger),
	)
}
