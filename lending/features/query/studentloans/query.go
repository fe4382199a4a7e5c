package studentloans

import (
	"time"
)

const (
	queryType = "StudentLoans"
)

type Query struct {
	AsOf time.Time
}

func BuildQuery(asOf time.Time) Query {
	return Query{AsOf: asOf.UTC()}
}

func (q Query) QueryType() string {
	return queryType
}
