package lendingtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	"github.com/AntonStoeckl/library-lending/testutil/eventstore/estesthelpers"
)

var (
	StudentTerms = core.LoanTerms{PeriodDays: 7, DailyFineRate: decimal.NewFromInt(5)}
	TeacherTerms = core.LoanTerms{PeriodDays: 14, DailyFineRate: decimal.NewFromInt(5)}
)

// FixedNow is the fake clock of all lending tests.
func FixedNow() time.Time {
	return time.Unix(0, 0).UTC()
}

// Day returns FixedNow plus n calendar days.
func Day(n int) time.Time {
	return FixedNow().AddDate(0, 0, n)
}

func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	return estesthelpers.GivenUniqueID(t)
}

func GivenEventStore(t testing.TB) *memoryengine.EventStore {
	t.Helper()

	store, err := memoryengine.NewEventStore()
	require.NoError(t, err)

	return store
}

// GivenHistory appends the events unconditionally, one by one.
func GivenHistory(t testing.TB, store shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	anyEvent := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		_, maxSequenceNumber, err := store.Query(ctx, anyEvent)
		require.NoError(t, err)

		storableEvent, err := shell.StorableEventFrom(event, shell.EventMetadataFor(ctx))
		require.NoError(t, err)

		require.NoError(t, store.Append(ctx, anyEvent, maxSequenceNumber, storableEvent))
	}
}

// AllEvents returns the whole history as domain events.
func AllEvents(t testing.TB, store shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := store.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	history, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return history
}

func BookDetails(isbn, title string) core.BookDetails {
	return core.BookDetails{
		ISBN:      isbn,
		Title:     title,
		Author:    "Author of " + title,
		Publisher: "Library Press",
		Year:      2020,
		Category:  "Fiction",
	}
}

func BookAdded(bookID uuid.UUID, isbn, title string, copies int, at time.Time) core.BookAddedToCatalog {
	return core.BuildBookAddedToCatalog(bookID, BookDetails(isbn, title), copies, at)
}

func BookBorrowed(loanID, bookID, userID uuid.UUID, role core.Role, at time.Time) core.BookBorrowed {
	terms := StudentTerms
	if role != core.RoleStudent {
		terms = TeacherTerms
	}

	return core.BuildBookBorrowed(loanID, bookID, userID, role, terms, at)
}

// BookReturned freezes the fine of the given borrow at the return instant.
func BookReturned(borrowed core.BookBorrowed, at time.Time) core.BookReturned {
	loan, _ := core.FindLoan(core.DomainEvents{borrowed}, borrowed.LoanID)

	return core.BuildBookReturned(loan, at)
}

func RecommendationSubmitted(recommendationID, userID uuid.UUID, title string, at time.Time) core.RecommendationSubmitted {
	return core.BuildRecommendationSubmitted(recommendationID, userID, title, "Author of "+title, "for the reading list", at)
}
