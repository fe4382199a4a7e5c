package recommendbook

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Decide determines whether the recommendation can be submitted.
//
// Business Rules:
//
//	GIVEN: the event history of one recommendation
//	WHEN: RecommendBook is received
//	THEN: RecommendationSubmitted is generated
//	ERROR: ErrInvalidRecommendation if title, author or reason is blank,
//	       or the RecommendationID exists with other data
//	IDEMPOTENCY: the RecommendationID exists with identical data from the same user
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	submitted := core.BuildRecommendationSubmitted(
		command.RecommendationID,
		command.UserID,
		command.Title,
		command.Author,
		command.Reason,
		command.OccurredAt,
	)

	if submitted.Title == "" || submitted.Author == "" || submitted.Reason == "" {
		return core.RejectedDecision(fmt.Errorf("%w: title, author and reason are required", core.ErrInvalidRecommendation))
	}

	if existing, found := core.FindRecommendation(history, submitted.RecommendationID); found {
		if existing.UserID == submitted.UserID &&
			strings.EqualFold(existing.Title, submitted.Title) &&
			strings.EqualFold(existing.Author, submitted.Author) &&
			existing.Reason == submitted.Reason {

			return core.IdempotentDecision()
		}

		return core.RejectedDecision(
			fmt.Errorf("%w: recommendation %s exists", core.ErrInvalidRecommendation, submitted.RecommendationID),
		)
	}

	return core.SuccessDecision(submitted)
}

func BuildEventFilter(recommendationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("RecommendationID", recommendationID.String())).
		Finalize()
}
