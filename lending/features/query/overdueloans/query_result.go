package overdueloans

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

type OverdueLoan struct {
	LoanID      core.LoanIDString
	BookID      core.BookIDString
	Title       string
	UserID      core.UserIDString
	Role        core.Role
	BorrowedAt  time.Time
	DueAt       time.Time
	DaysOverdue int
	Fine        decimal.Decimal
}

type OverdueLoans struct {
	AsOf           time.Time
	Loans          []OverdueLoan
	Count          int
	TotalFines     decimal.Decimal
	SequenceNumber uint
}

func (r OverdueLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
