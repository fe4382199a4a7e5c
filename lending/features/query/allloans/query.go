package allloans

import (
	"github.com/google/uuid"
)

const (
	queryType = "AllLoans"
)

type Query struct {
	UserID uuid.UUID
}

func BuildQuery(userID uuid.UUID) Query {
	return Query{UserID: userID}
}

func (q Query) QueryType() string {
	return queryType
}
