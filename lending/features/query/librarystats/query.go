package librarystats

import (
	"time"
)

const (
	queryType = "LibraryStats"
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
