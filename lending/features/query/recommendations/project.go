package recommendations

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ProjectRecommendations implements the query logic for recommendation listings.
//
// Query Logic:
//
//	INCLUDES: recommendations of the user, or all when no user is given
//	EXCLUDES: decisions without a submission
//	ORDER: submission instant descending, RecommendationID descending on ties
func ProjectRecommendations(history core.DomainEvents, query Query, maxSequenceNumber uint) Recommendations {
	recommendations := make([]core.Recommendation, 0)
	pending := 0

	for _, recommendation := range core.ProjectRecommendations(history) {
		if query.UserID != uuid.Nil && recommendation.UserID != query.UserID.String() {
			continue
		}

		if recommendation.Status == core.RecommendationPending {
			pending++
		}

		recommendations = append(recommendations, recommendation)
	}

	slices.SortStableFunc(recommendations, func(a, b core.Recommendation) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}

		return strings.Compare(b.RecommendationID, a.RecommendationID)
	})

	return Recommendations{
		Recommendations: recommendations,
		Count:           len(recommendations),
		PendingCount:    pending,
		SequenceNumber:  maxSequenceNumber,
	}
}

func BuildEventFilter(userID uuid.UUID) eventstore.Filter {
	if userID == uuid.Nil {
		return eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(
				core.RecommendationSubmittedEventType,
				core.RecommendationDecidedEventType,
			).
			Finalize()
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RecommendationSubmittedEventType,
			core.RecommendationDecidedEventType,
		).
		AndAnyPredicateOf(eventstore.P("UserID", userID.String())).
		Finalize()
}
