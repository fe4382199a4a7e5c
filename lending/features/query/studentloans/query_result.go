package studentloans

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

type StudentLoan struct {
	LoanID     core.LoanIDString
	BookID     core.BookIDString
	Title      string
	UserID     core.UserIDString
	BorrowedAt time.Time
	DueAt      time.Time
	Returned   bool
	ReturnedAt time.Time // zero while active
	Overdue    bool
	Fine       decimal.Decimal
}

type StudentLoans struct {
	AsOf           time.Time
	Loans          []StudentLoan
	Count          int
	ActiveCount    int
	SequenceNumber uint
}

func (r StudentLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
