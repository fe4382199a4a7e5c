package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const RecommendationSubmittedEventType = "RecommendationSubmitted"

// RecommendationSubmitted is a teacher's request to acquire a book, pending until an admin decides.
type RecommendationSubmitted struct {
	RecommendationID RecommendationIDString
	UserID           UserIDString
	Title            string
	Author           string
	Reason           string
	OccurredAt       OccurredAt
}

// BuildRecommendationSubmitted trims the free-text fields.
func BuildRecommendationSubmitted(
	recommendationID uuid.UUID,
	userID uuid.UUID,
	title string,
	author string,
	reason string,
	occurredAt time.Time,
) RecommendationSubmitted {

	return RecommendationSubmitted{
		RecommendationID: recommendationID.String(),
		UserID:           userID.String(),
		Title:            strings.TrimSpace(title),
		Author:           strings.TrimSpace(author),
		Reason:           strings.TrimSpace(reason),
		OccurredAt:       ToOccurredAt(occurredAt),
	}
}

func (e RecommendationSubmitted) EventType() string {
	return RecommendationSubmittedEventType
}

func (e RecommendationSubmitted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
