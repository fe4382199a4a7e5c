package loanfine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

type LoanFine struct {
	LoanID         core.LoanIDString
	UserID         core.UserIDString
	DueAt          time.Time
	Returned       bool
	DaysOverdue    int
	Fine           decimal.Decimal
	SequenceNumber uint
}

func (r LoanFine) GetSequenceNumber() uint {
	return r.SequenceNumber
}
