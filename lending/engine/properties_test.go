package engine_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/engine"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

func Test_Engine_Borrow_ConcurrentRaceForLastCopy_ExactlyOneSucceeds(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-d", 1)

	const racers = 2
	loanIDs := make([]uuid.UUID, racers)
	errs := make([]error, racers)

	// act
	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loanIDs[i], errs[i] = e.Borrow(ctx, GivenUniqueID(t), bookID, core.RoleStudent)
		}()
	}
	wg.Wait()

	// assert
	successes := 0
	for i := range racers {
		if errs[i] == nil {
			successes++
			assert.NotEqual(t, uuid.Nil, loanIDs[i])
			continue
		}

		assert.ErrorIs(t, errs[i], core.ErrOutOfStock)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, availableCopies(t, e, bookID))
}

func Test_Engine_Borrow_ConcurrentSameUserSameBook_AtMostOneActiveLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-same-user", 5)
	userID := GivenUniqueID(t)

	const racers = 20
	errs := make([]error, racers)

	// act
	var wg sync.WaitGroup
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.Borrow(ctx, userID, bookID, core.RoleStudent)
		}()
	}
	wg.Wait()

	// assert
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}

		assert.ErrorIs(t, err, core.ErrAlreadyBorrowed)
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 4, availableCopies(t, e, bookID))

	loans, err := e.ListActiveLoans(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func Test_Engine_BorrowReturn_ConcurrentChurnOnDifferentLoans_RestoresAllCopies(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	const total = 3
	bookID := givenBook(t, e, "isbn-churn", total)

	const workers = 30
	const cycles = 5
	users := make([]uuid.UUID, workers)
	for i := range users {
		users[i] = GivenUniqueID(t)
	}

	var mu sync.Mutex
	var unexpected []error
	completed := 0

	report := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		unexpected = append(unexpected, err)
	}

	// act
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for done, tries := 0, 0; done < cycles && tries < 2000; tries++ {
				loanID, err := e.Borrow(ctx, users[i], bookID, core.RoleStudent)
				if errors.Is(err, core.ErrOutOfStock) || errors.Is(err, core.ErrContention) {
					time.Sleep(time.Millisecond)
					continue
				}
				if err != nil {
					report(err)
					return
				}

				if err := returnUntilDone(ctx, e, loanID, users[i]); err != nil {
					report(err)
					return
				}

				done++
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Empty(t, unexpected)
	assert.Equal(t, workers*cycles, completed)
	assert.Equal(t, total, availableCopies(t, e, bookID))

	for _, user := range users {
		loans, err := e.ListActiveLoans(ctx, user)
		require.NoError(t, err)
		assert.Empty(t, loans)
	}
}

func Test_Engine_Conservation_AvailableIsTotalMinusActiveLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, clock := givenEngine(t, GivenEventStore(t))
	const total = 3
	bookID := givenBook(t, e, "isbn-cons", total)
	users := make([]uuid.UUID, 5)
	for i := range users {
		users[i] = GivenUniqueID(t)
	}
	activeLoanOf := make(map[uuid.UUID]uuid.UUID)
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec

	for step := 0; step < 60; step++ {
		user := users[rng.IntN(len(users))]
		clock.AdvanceDays(1)

		// act
		if loanID, active := activeLoanOf[user]; active {
			_, err := e.Return(ctx, loanID, user)
			require.NoError(t, err)
			delete(activeLoanOf, user)
		} else {
			loanID, err := e.Borrow(ctx, user, bookID, core.RoleStudent)
			if len(activeLoanOf) == total {
				require.ErrorIs(t, err, core.ErrOutOfStock)
			} else {
				require.NoError(t, err)
				activeLoanOf[user] = loanID
			}
		}

		// assert
		available := availableCopies(t, e, bookID)
		assert.Equal(t, total-len(activeLoanOf), available, "step %d", step)
		assert.GreaterOrEqual(t, available, 0)
		assert.LessOrEqual(t, available, total)
	}

	for _, user := range users {
		loans, err := e.ListActiveLoans(ctx, user)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(loans), 1, "at most one active loan per user and book")
	}
}

func Test_Engine_ComputeFine_IsMonotonicForActiveLoans(t *testing.T) {
	// arrange
	ctx := context.Background()
	e, _ := givenEngine(t, GivenEventStore(t))
	bookID := givenBook(t, e, "isbn-mono", 1)
	loanID, err := e.Borrow(ctx, GivenUniqueID(t), bookID, core.RoleStudent)
	require.NoError(t, err)

	// act + assert
	previous, err := e.ComputeFine(ctx, loanID, FixedNow())
	require.NoError(t, err)
	assert.True(t, previous.IsZero())

	for hours := 1; hours <= 24*30; hours += 7 {
		fine, err := e.ComputeFine(ctx, loanID, FixedNow().Add(time.Duration(hours)*time.Hour))
		require.NoError(t, err)
		assert.True(t, fine.GreaterThanOrEqual(previous), "fine decreased after %d hours", hours)
		previous = fine
	}

	dayThirty, err := e.ComputeFine(ctx, loanID, Day(30))
	require.NoError(t, err)
	assert.Equal(t, "115", dayThirty.String(), "23 days overdue at rate 5")
}

func Test_Engine_ComputeFine_UnknownLoan_IsNotFound(t *testing.T) {
	// arrange
	e, _ := givenEngine(t, GivenEventStore(t))

	// act
	_, err := e.ComputeFine(context.Background(), GivenUniqueID(t), FixedNow())

	// assert
	assert.ErrorIs(t, err, core.ErrLoanNotFound)
}

func Test_Engine_Return_InvariantViolation_RaisesAlertAndAppendsNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	bookID := GivenUniqueID(t)
	userID := GivenUniqueID(t)
	borrowed := BookBorrowed(GivenUniqueID(t), bookID, userID, core.RoleStudent, Day(0))
	GivenHistory(t, store,
		BookAdded(bookID, "isbn-inv", "Title", 1, Day(0)),
		borrowed,
		core.BuildBookCopiesChanged(bookID, 0, Day(1)),
	)
	logger := testdoubles.NewContextualLoggerSpy()
	metrics := testdoubles.NewMetricsCollectorSpy()
	e, _ := givenEngine(t, store, engine.WithContextualLogging(logger), engine.WithMetrics(metrics))

	// act
	_, err := e.Return(ctx, mustParse(t, borrowed.LoanID), userID)

	// assert
	assert.ErrorIs(t, err, core.ErrInvariantViolation)
	assert.False(t, core.IsBusinessError(err))
	assert.True(t, logger.HasLogWithArg("error", shell.LogMsgInvariantViolation, shell.LogAttrAlert, true))
	assert.True(t, metrics.HasCounterRecordForMetric(shell.InvariantViolationsMetric).Assert())
	assert.Len(t, AllEvents(t, store), 3)
}

func Test_Engine_Borrow_ExhaustedRetries_IsContention(t *testing.T) {
	// arrange
	base := GivenEventStore(t)
	e, _ := givenEngine(t, base)
	bookID := givenBook(t, e, "isbn-cont", 1)

	conflicting, err := engine.New(
		alwaysConflictingStore{EventStore: base},
		engine.WithRetryOptions(shell.WithMaxAttempts(3), shell.WithBaseDelay(time.Millisecond)),
	)
	require.NoError(t, err)

	// act
	_, err = conflicting.Borrow(context.Background(), GivenUniqueID(t), bookID, core.RoleStudent)

	// assert
	assert.ErrorIs(t, err, core.ErrContention)
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 1, availableCopies(t, e, bookID))
}

func Test_Engine_OperationTimeout_IsTimeout(t *testing.T) {
	// arrange
	e, err := engine.New(blockingStore{EventStore: GivenEventStore(t)}, engine.WithOperationTimeout(20*time.Millisecond))
	require.NoError(t, err)

	// act
	_, borrowErr := e.Borrow(context.Background(), GivenUniqueID(t), GivenUniqueID(t), core.RoleStudent)
	_, returnErr := e.Return(context.Background(), GivenUniqueID(t), GivenUniqueID(t))

	// assert
	assert.ErrorIs(t, borrowErr, core.ErrTimeout)
	assert.ErrorIs(t, returnErr, core.ErrTimeout)
}

func Test_New_RejectsInvalidOptions(t *testing.T) {
	store := GivenEventStore(t)

	testCases := []struct {
		name        string
		store       shell.EventStore
		opt         engine.Option
		expectedErr error
	}{
		{name: "nil store", store: nil, opt: engine.WithRetryOptions(), expectedErr: engine.ErrNilEventStore},
		{name: "nil clock", store: store, opt: engine.WithClock(nil), expectedErr: engine.ErrNilClock},
		{name: "nil policy", store: store, opt: engine.WithPolicy(nil), expectedErr: engine.ErrNilPolicy},
		{name: "zero timeout", store: store, opt: engine.WithOperationTimeout(0), expectedErr: engine.ErrInvalidOperationTimeout},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.New(tc.store, tc.opt)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

type alwaysConflictingStore struct {
	shell.EventStore
}

func (s alwaysConflictingStore) Append(
	_ context.Context,
	_ eventstore.Filter,
	_ eventstore.MaxSequenceNumberUint,
	_ ...eventstore.StorableEvent,
) error {

	return eventstore.ErrConcurrencyConflict
}

type blockingStore struct {
	shell.EventStore
}

func (s blockingStore) Query(ctx context.Context, _ eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	<-ctx.Done()

	return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, ctx.Err())
}

func returnUntilDone(ctx context.Context, e *engine.Engine, loanID, userID uuid.UUID) error {
	for {
		_, err := e.Return(ctx, loanID, userID)
		if !errors.Is(err, core.ErrContention) {
			return err
		}
	}
}
