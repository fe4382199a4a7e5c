package bookdetails

import (
	"github.com/google/uuid"
)

const (
	queryType = "BookDetails"
)

type Query struct {
	BookID uuid.UUID
}

func BuildQuery(bookID uuid.UUID) Query {
	return Query{BookID: bookID}
}

func (q Query) QueryType() string {
	return queryType
}
