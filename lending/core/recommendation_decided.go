package core

import (
	"time"

	"github.com/google/uuid"
)

const RecommendationDecidedEventType = "RecommendationDecided"

// RecommendationDecided sets the status of a recommendation. A later decision overrides an earlier one.
// UserID is the author of the recommendation, not the deciding admin.
type RecommendationDecided struct {
	RecommendationID RecommendationIDString
	UserID           UserIDString
	Status           RecommendationStatus
	OccurredAt       OccurredAt
}

func BuildRecommendationDecided(
	recommendationID uuid.UUID,
	userID UserIDString,
	status RecommendationStatus,
	occurredAt time.Time,
) RecommendationDecided {

	return RecommendationDecided{
		RecommendationID: recommendationID.String(),
		UserID:           userID,
		Status:           status,
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

func (e RecommendationDecided) EventType() string {
	return RecommendationDecidedEventType
}

func (e RecommendationDecided) HasOccurredAt() time.Time {
	return e.OccurredAt
}
