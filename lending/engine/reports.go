package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/features/query/librarystats"
	"github.com/AntonStoeckl/library-lending/lending/features/query/outstandingfines"
	"github.com/AntonStoeckl/library-lending/lending/features/query/overdueloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/studentloans"
)

func (e *Engine) LibraryStats(ctx context.Context, asOf time.Time) (librarystats.LibraryStats, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.libraryStats.Handle(ctx, librarystats.BuildQuery(asOf))

	return result, translateError(err)
}

// OverdueLoans lists the active loans past due at asOf, most overdue first.
func (e *Engine) OverdueLoans(ctx context.Context, asOf time.Time) (overdueloans.OverdueLoans, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.overdueLoans.Handle(ctx, overdueloans.BuildQuery(asOf))

	return result, translateError(err)
}

func (e *Engine) OutstandingFines(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) (outstandingfines.OutstandingFines, error) {

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.outstandingFines.Handle(ctx, outstandingfines.BuildQuery(userID, asOf))

	return result, translateError(err)
}

// StudentLoans reports every loan borrowed with the student role, newest borrow first.
func (e *Engine) StudentLoans(ctx context.Context, asOf time.Time) (studentloans.StudentLoans, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.studentLoans.Handle(ctx, studentloans.BuildQuery(asOf))

	return result, translateError(err)
}
