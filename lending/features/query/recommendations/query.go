package recommendations

import (
	"github.com/google/uuid"
)

const (
	queryType = "Recommendations"
)

// Query selects the recommendations of UserID, or all of them when UserID is uuid.Nil.
type Query struct {
	UserID uuid.UUID
}

func BuildQuery(userID uuid.UUID) Query {
	return Query{UserID: userID}
}

func BuildQueryForAll() Query {
	return Query{UserID: uuid.Nil}
}

func (q Query) QueryType() string {
	return queryType
}
