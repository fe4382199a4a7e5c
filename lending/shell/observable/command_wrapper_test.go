package observable_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/shell"
	"github.com/AntonStoeckl/library-lending/lending/shell/observable"
	"github.com/AntonStoeckl/library-lending/testutil/observability/testdoubles"
)

type testCommand struct{}

func (testCommand) CommandType() string { return "TestCommand" }

type commandHandlerStub struct {
	result shell.HandlerResult
	err    error
	calls  int
}

func (h *commandHandlerStub) Handle(_ context.Context, _ testCommand) (shell.HandlerResult, error) {
	h.calls++
	return h.result, h.err
}

type commandSpies struct {
	metrics *testdoubles.MetricsCollectorSpy
	tracing *testdoubles.TracingCollectorSpy
	logger  *testdoubles.ContextualLoggerSpy
}

func givenWrappedCommandHandler(
	t *testing.T,
	stub *commandHandlerStub,
) (*observable.CommandWrapper[testCommand], commandSpies) {

	t.Helper()

	spies := commandSpies{
		metrics: testdoubles.NewMetricsCollectorSpy(),
		tracing: testdoubles.NewTracingCollectorSpy(),
		logger:  testdoubles.NewContextualLoggerSpy(),
	}

	wrapper, err := observable.NewCommandWrapper[testCommand](
		stub,
		observable.WithCommandMetrics[testCommand](spies.metrics),
		observable.WithCommandTracing[testCommand](spies.tracing),
		observable.WithCommandContextualLogging[testCommand](spies.logger),
	)
	require.NoError(t, err)

	return wrapper, spies
}

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	expected := shell.HandlerResult{RetryAttempts: 1, LastErrorType: shell.ErrorTypeNone}
	stub := &commandHandlerStub{result: expected}
	wrapper, spies := givenWrappedCommandHandler(t, stub)

	// act
	result, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	assert.Equal(t, 1, stub.calls)

	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, spies.metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.Zero(t, spies.metrics.CountCounterRecordsForMetric(shell.CommandHandlerRetriesMetric))

	assert.True(t, spies.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusSuccess))
	assert.True(t, spies.logger.HasLog("info", shell.LogMsgCommandStarted))
	assert.True(t, spies.logger.HasLogWithArg("info", shell.LogMsgCommandCompleted, shell.LogAttrBusinessOutcome, shell.StatusSuccess))
}

func Test_CommandWrapper_Handle_Idempotent(t *testing.T) {
	// arrange
	stub := &commandHandlerStub{result: shell.HandlerResult{Idempotent: true, RetryAttempts: 1}}
	wrapper, spies := givenWrappedCommandHandler(t, stub)

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerIdempotentMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		Assert())
	assert.True(t, spies.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusIdempotent))
}

func Test_CommandWrapper_Handle_RecordsRejection_WhenBusinessRuleFails(t *testing.T) {
	// arrange
	rejection := fmt.Errorf("%w: book b-1", core.ErrOutOfStock)
	stub := &commandHandlerStub{result: shell.HandlerResult{RetryAttempts: 1}, err: rejection}
	wrapper, spies := givenWrappedCommandHandler(t, stub)

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrOutOfStock)
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerRejectedMetric).Assert())
	assert.True(t, spies.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusRejected))
	assert.True(t, spies.logger.HasLog("info", shell.LogMsgCommandRejected))
	assert.False(t, spies.logger.HasLog("error", shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_RaisesAlert_WhenInvariantIsViolated(t *testing.T) {
	// arrange
	violation := fmt.Errorf("%w: 2 active loans but 1 copy", core.ErrInvariantViolation)
	stub := &commandHandlerStub{result: shell.HandlerResult{RetryAttempts: 1}, err: violation}
	wrapper, spies := givenWrappedCommandHandler(t, stub)

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrInvariantViolation)
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.InvariantViolationsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		Assert())
	assert.True(t, spies.logger.HasLogWithArg("error", shell.LogMsgInvariantViolation, shell.LogAttrAlert, true))
	assert.True(t, spies.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusError))
}

func Test_CommandWrapper_Handle_RecordsRetryExhaustion(t *testing.T) {
	// arrange
	stub := &commandHandlerStub{
		result: shell.HandlerResult{
			RetryAttempts:    6,
			LastErrorType:    shell.ErrorTypeConcurrencyConflict,
			RetriesExhausted: true,
		},
		err: eventstore.ErrConcurrencyConflict,
	}
	wrapper, spies := givenWrappedCommandHandler(t, stub)

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel(shell.LogAttrAttemptNumber, "5").
		WithErrorType(shell.ErrorTypeConcurrencyConflict).
		Assert())
	assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerMaxRetriesReachedMetric).Assert())
	assert.True(t, spies.metrics.HasDurationRecordForMetric(shell.CommandHandlerRetryDelayMetric).Assert())
	assert.True(t, spies.tracing.HasFinishedSpan(shell.SpanNameCommandHandle, shell.StatusConcurrencyConflict))
	assert.True(t, spies.logger.HasLogWithArg("error", shell.LogMsgCommandFailed, shell.LogAttrStatus, shell.StatusConcurrencyConflict))
}

func Test_CommandWrapper_Handle_ClassifiesContextErrors(t *testing.T) {
	testCases := []struct {
		err            error
		expectedStatus string
	}{
		{context.Canceled, shell.StatusCanceled},
		{context.DeadlineExceeded, shell.StatusTimeout},
		{errors.New("connection refused"), shell.StatusError},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedStatus, func(t *testing.T) {
			// arrange
			wrapper, spies := givenWrappedCommandHandler(t, &commandHandlerStub{err: tc.err})

			// act
			_, err := wrapper.Handle(context.Background(), testCommand{})

			// assert
			assert.ErrorIs(t, err, tc.err)
			assert.True(t, spies.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
				WithStatus(tc.expectedStatus).
				Assert())
		})
	}
}

func Test_CommandWrapper_Handle_FallsBackToPlainLogger(t *testing.T) {
	// arrange
	logSpy := testdoubles.NewLogHandlerSpy(false)
	wrapper, err := observable.NewCommandWrapper[testCommand](
		&commandHandlerStub{result: shell.HandlerResult{RetryAttempts: 1}},
		observable.WithCommandLogging[testCommand](slog.New(logSpy)),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.True(t, logSpy.HasInfoLogWithMessage(shell.LogMsgCommandCompleted).
		WithAttr(shell.LogAttrCommandType, "TestCommand").
		WithDurationMS().
		Assert())
}

func Test_CommandWrapper_Handle_WorksWithoutObservability(t *testing.T) {
	// arrange
	stub := &commandHandlerStub{result: shell.HandlerResult{RetryAttempts: 1}}
	wrapper, err := observable.NewCommandWrapper[testCommand](stub)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}
