package recommendbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	commandType = "RecommendBook"
)

type Command struct {
	RecommendationID uuid.UUID
	UserID           uuid.UUID
	Title            string
	Author           string
	Reason           string
	OccurredAt       core.OccurredAt
}

func (c Command) CommandType() string {
	return commandType
}

func BuildCommand(
	recommendationID uuid.UUID,
	userID uuid.UUID,
	title string,
	author string,
	reason string,
	occurredAt time.Time,
) Command {

	return Command{
		RecommendationID: recommendationID,
		UserID:           userID,
		Title:            title,
		Author:           author,
		Reason:           reason,
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}
