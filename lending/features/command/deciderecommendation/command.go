package deciderecommendation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "DecideRecommendation"
)

type Command struct {
	RecommendationID uuid.UUID
	Status           core.RecommendationStatus
	OccurredAt       core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(recommendationID uuid.UUID, status core.RecommendationStatus, occurredAt time.Time) Command {
	return Command{
		RecommendationID: recommendationID,
		Status:           status,
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}
