package core

import (
	"fmt"
	"strings"
	"time"
)

// RecommendationStatus is pending until an admin approves or rejects.
type RecommendationStatus string

const (
	RecommendationPending  RecommendationStatus = "pending"
	RecommendationApproved RecommendationStatus = "approved"
	RecommendationRejected RecommendationStatus = "rejected"
)

// ParseDecision accepts the statuses an admin can set: approved and rejected.
func ParseDecision(s string) (RecommendationStatus, error) {
	switch status := RecommendationStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case RecommendationApproved, RecommendationRejected:
		return status, nil
	default:
		return "", fmt.Errorf("%w: status %q, expected approved or rejected", ErrInvalidRecommendation, s)
	}
}

func (s RecommendationStatus) String() string {
	return string(s)
}

// Recommendation is the record derived from RecommendationSubmitted and RecommendationDecided.
type Recommendation struct {
	RecommendationID RecommendationIDString
	UserID           UserIDString
	Title            string
	Author           string
	Reason           string
	Status           RecommendationStatus
	SubmittedAt      time.Time
	DecidedAt        time.Time // zero while pending
}

// ProjectRecommendations folds the history in submission order.
// A decision without a matching submission is ignored.
func ProjectRecommendations(history DomainEvents) []Recommendation {
	recommendations := make([]Recommendation, 0)
	index := make(map[RecommendationIDString]int)

	for _, event := range history {
		switch e := event.(type) {
		case RecommendationSubmitted:
			if _, exists := index[e.RecommendationID]; exists {
				continue
			}

			index[e.RecommendationID] = len(recommendations)
			recommendations = append(recommendations, Recommendation{
				RecommendationID: e.RecommendationID,
				UserID:           e.UserID,
				Title:            e.Title,
				Author:           e.Author,
				Reason:           e.Reason,
				Status:           RecommendationPending,
				SubmittedAt:      e.OccurredAt,
			})

		case RecommendationDecided:
			if i, exists := index[e.RecommendationID]; exists {
				recommendations[i].Status = e.Status
				recommendations[i].DecidedAt = e.OccurredAt
			}
		}
	}

	return recommendations
}

// FindRecommendation returns one recommendation, false if it was never submitted.
func FindRecommendation(history DomainEvents, recommendationID RecommendationIDString) (Recommendation, bool) {
	for _, recommendation := range ProjectRecommendations(history) {
		if recommendation.RecommendationID == recommendationID {
			return recommendation, true
		}
	}

	return Recommendation{}, false
}
