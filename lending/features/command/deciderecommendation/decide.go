package deciderecommendation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the recommendation status changes.
//
// Business Rules:
//
//	GIVEN: the event history of one recommendation
//	WHEN: DecideRecommendation is received
//	THEN: RecommendationDecided is generated
//	ERROR: ErrInvalidRecommendation if the status is neither approved nor rejected
//	ERROR: ErrRecommendationNotFound if the recommendation was never submitted
//	IDEMPOTENCY: the recommendation already has the status
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Status != core.RecommendationApproved && command.Status != core.RecommendationRejected {
		return core.RejectedDecision(fmt.Errorf("%w: status %q", core.ErrInvalidRecommendation, command.Status))
	}

	recommendation, found := core.FindRecommendation(history, command.RecommendationID.String())
	if !found {
		return core.RejectedDecision(core.ErrRecommendationNotFound)
	}

	if recommendation.Status == command.Status {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(core.BuildRecommendationDecided(
		command.RecommendationID,
		recommendation.UserID,
		command.Status,
		command.OccurredAt,
	))
}

func BuildEventFilter(recommendationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RecommendationID", recommendationID.String())).
		Finalize()
}
