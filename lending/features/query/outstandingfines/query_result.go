package outstandingfines

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

type FineLine struct {
	LoanID      core.LoanIDString
	BookID      core.BookIDString
	DueAt       time.Time
	Returned    bool
	DaysOverdue int
	Fine        decimal.Decimal
}

type OutstandingFines struct {
	UserID         core.UserIDString
	AsOf           time.Time
	Lines          []FineLine
	Total          decimal.Decimal
	SequenceNumber uint
}

func (r OutstandingFines) GetSequenceNumber() uint {
	return r.SequenceNumber
}
