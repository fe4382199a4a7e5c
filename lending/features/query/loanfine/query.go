package loanfine

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "LoanFine"
)

type Query struct {
	LoanID uuid.UUID
	AsOf   time.Time
}

func BuildQuery(loanID uuid.UUID, asOf time.Time) Query {
	return Query{LoanID: loanID, AsOf: asOf.UTC()}
}

func (q Query) QueryType() string {
	return queryType
}
