package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrBookNotFound = fmt.Errorf("book %w", ErrNotFound)
	ErrLoanNotFound = fmt.Errorf("loan %w", ErrNotFound)

	ErrRecommendationNotFound = fmt.Errorf("recommendation %w", ErrNotFound)

	ErrOutOfStock         = errors.New("no copy of the book is available")
	ErrAlreadyBorrowed    = errors.New("the user already has an active loan for this book")
	ErrAlreadyReturned    = errors.New("the loan was already returned")
	ErrUnauthorized       = errors.New("the loan belongs to another user")
	ErrBookInUse          = errors.New("the book has active loans")
	ErrDuplicateBook      = errors.New("a book with the same ISBN or the same bibliographic data exists")
	ErrInvalidCopies      = errors.New("invalid number of copies")
	ErrInvalidBook        = errors.New("invalid book data")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvariantViolation = errors.New("catalog invariant violated")

	ErrInvalidRecommendation = errors.New("invalid book recommendation")

	ErrContention = errors.New("too much contention on the book, retry later")
	ErrTimeout    = errors.New("the operation timed out")
)

// IsBusinessError reports whether err is a rejection by a business rule,
// as opposed to contention, timeouts or infrastructure failures.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrOutOfStock,
		ErrAlreadyBorrowed,
		ErrAlreadyReturned,
		ErrUnauthorized,
		ErrBookInUse,
		ErrDuplicateBook,
		ErrInvalidCopies,
		ErrInvalidBook,
		ErrUnknownRole,
		ErrInvalidRecommendation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
