package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
	"github.com/AntonStoeckl/library-lending/lending/features/command/deciderecommendation"
	"github.com/AntonStoeckl/library-lending/lending/features/command/recommendbook"
	"github.com/AntonStoeckl/library-lending/lending/features/query/recommendations"
)

// NewRecommendation is the input of RecommendBook. A zero RecommendationID is replaced by a new one.
type NewRecommendation struct {
	RecommendationID uuid.UUID
	UserID           uuid.UUID
	Title            string
	Author           string
	Reason           string
}

// RecommendBook submits a pending recommendation and returns its RecommendationID.
//
// Errors: core.ErrInvalidRecommendation, core.ErrContention, core.ErrTimeout.
func (e *Engine) RecommendBook(ctx context.Context, recommendation NewRecommendation) (uuid.UUID, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	recommendationID := recommendation.RecommendationID
	if recommendationID == uuid.Nil {
		var err error
		if recommendationID, err = uuid.NewV7(); err != nil {
			return uuid.Nil, err
		}
	}

	command := recommendbook.BuildCommand(
		recommendationID,
		recommendation.UserID,
		recommendation.Title,
		recommendation.Author,
		recommendation.Reason,
		e.Now(),
	)

	if _, err := e.recommendBook.Handle(ctx, command); err != nil {
		return uuid.Nil, translateError(err)
	}

	return recommendationID, nil
}

// DecideRecommendation approves or rejects, a later call may revise the decision.
//
// Errors: core.ErrRecommendationNotFound, core.ErrInvalidRecommendation, core.ErrContention, core.ErrTimeout.
func (e *Engine) DecideRecommendation(
	ctx context.Context,
	recommendationID uuid.UUID,
	status core.RecommendationStatus,
) error {

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	_, err := e.decideRecommendation.Handle(ctx, deciderecommendation.BuildCommand(recommendationID, status, e.Now()))

	return translateError(err)
}

// RecommendationsOf lists the recommendations the user submitted, newest first.
func (e *Engine) RecommendationsOf(ctx context.Context, userID uuid.UUID) (recommendations.Recommendations, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.recommendations.Handle(ctx, recommendations.BuildQuery(userID))

	return result, translateError(err)
}

// AllRecommendations lists every recommendation with the number still pending.
func (e *Engine) AllRecommendations(ctx context.Context) (recommendations.Recommendations, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	result, err := e.recommendations.Handle(ctx, recommendations.BuildQueryForAll())

	return result, translateError(err)
}
