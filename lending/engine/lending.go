package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending/lending/features/command/returnbook"
	"github.com/AntonStoeckl/library-lending/lending/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/allloans"
	"github.com/AntonStoeckl/library-lending/lending/features/query/loanfine"
)

// ReturnReceipt confirms a return with the fine frozen at the return instant.
type ReturnReceipt struct {
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	UserID     core.UserIDString
	ReturnedAt time.Time
	Fine       decimal.Decimal
}

// Borrow lends one copy of the book to the user with the loan terms of the role and returns the LoanID.
//
// Errors: core.ErrUnknownRole, core.ErrBookNotFound, core.ErrAlreadyBorrowed, core.ErrOutOfStock,
// core.ErrInvariantViolation, core.ErrContention, core.ErrTimeout.
func (e *Engine) Borrow(ctx context.Context, userID uuid.UUID, bookID uuid.UUID, role core.Role) (uuid.UUID, error) {
	terms, err := e.policy.TermsFor(role)
	if err != nil {
		return uuid.Nil, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	// generated once, so a retry after a lost append response is detected as idempotent
	loanID, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}

	command := borrowbook.BuildCommand(loanID, bookID, userID, role, terms, e.Now())
	if _, err = e.borrowBook.Handle(ctx, command); err != nil {
		return uuid.Nil, translateError(err)
	}

	return loanID, nil
}

// Return closes the loan on behalf of the requesting user, who must own it.
//
// Errors: core.ErrLoanNotFound, core.ErrUnauthorized, core.ErrAlreadyReturned,
// core.ErrInvariantViolation, core.ErrContention, core.ErrTimeout.
func (e *Engine) Return(ctx context.Context, loanID uuid.UUID, requestingUserID uuid.UUID) (ReturnReceipt, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.returnBook.Handle(ctx, returnbook.BuildCommand(loanID, requestingUserID, e.Now()))
	if err != nil {
		return ReturnReceipt{}, translateError(err)
	}

	returned, ok := result.AppendedEvent.(core.BookReturned)
	if !ok {
		return ReturnReceipt{}, core.ErrAlreadyReturned
	}

	return ReturnReceipt{
		LoanID:     returned.LoanID,
		BookID:     returned.BookID,
		UserID:     returned.UserID,
		ReturnedAt: returned.OccurredAt,
		Fine:       returned.Fine,
	}, nil
}

// ComputeFine is the live fine as of asOf for an active loan, the frozen fine for a returned one.
func (e *Engine) ComputeFine(ctx context.Context, loanID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	result, err := e.LoanFine(ctx, loanID, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	return result.Fine, nil
}

// LoanFine is ComputeFine together with the owner, due date and days overdue of the loan.
func (e *Engine) LoanFine(ctx context.Context, loanID uuid.UUID, asOf time.Time) (loanfine.LoanFine, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.loanFine.Handle(ctx, loanfine.BuildQuery(loanID, asOf))
	if err != nil {
		return loanfine.LoanFine{}, translateError(err)
	}

	return result, nil
}

// ListActiveLoans returns the open loans of the user, newest borrow first.
func (e *Engine) ListActiveLoans(ctx context.Context, userID uuid.UUID) ([]core.Loan, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.activeLoans.Handle(ctx, activeloans.BuildQuery(userID))
	if err != nil {
		return nil, translateError(err)
	}

	return result.Loans, nil
}

// ListAllLoans returns all loans of the user, newest borrow first.
func (e *Engine) ListAllLoans(ctx context.Context, userID uuid.UUID) ([]core.Loan, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.allLoans.Handle(ctx, allloans.BuildQuery(userID))
	if err != nil {
		return nil, translateError(err)
	}

	return result.Loans, nil
}
