package deciderecommendation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/deciderecommendation"
	. "github.com/AntonStoeckl/library-lending/testutil/lending/lendingtest" //nolint:revive
)

func Test_CommandHandler_Handle_Success_ApprovesOnce(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := GivenEventStore(t)
	recommendationID := GivenUniqueID(t)
	GivenHistory(t, store, RecommendationSubmitted(recommendationID, GivenUniqueID(t), "Dune", Day(0)))
	handler := deciderecommendation.NewCommandHandler(store)
	command := deciderecommendation.BuildCommand(recommendationID, core.RecommendationApproved, Day(1))

	// act
	first, err := handler.Handle(ctx, command)
	require.NoError(t, err)
	second, err := handler.Handle(ctx, command)
	require.NoError(t, err)

	// assert
	assert.IsType(t, core.RecommendationDecided{}, first.AppendedEvent)
	assert.True(t, second.Idempotent)

	history := AllEvents(t, store)
	assert.Len(t, history, 2)
	recommendation, found := core.FindRecommendation(history, recommendationID.String())
	require.True(t, found)
	assert.Equal(t, core.RecommendationApproved, recommendation.Status)
}

func Test_CommandHandler_Handle_Error_WhenRecommendationIsUnknown(t *testing.T) {
	// arrange
	handler := deciderecommendation.NewCommandHandler(GivenEventStore(t))

	// act
	_, err := handler.Handle(context.Background(),
		deciderecommendation.BuildCommand(GivenUniqueID(t), core.RecommendationRejected, Day(1)))

	// assert
	assert.ErrorIs(t, err, core.ErrRecommendationNotFound)
}
