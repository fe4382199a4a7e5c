package outstandingfines

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "OutstandingFines"
)

type Query struct {
	UserID uuid.UUID
	AsOf   time.Time
}

func BuildQuery(userID uuid.UUID, asOf time.Time) Query {
	return Query{UserID: userID, AsOf: asOf.UTC()}
}

func (q Query) QueryType() string {
	return queryType
}
