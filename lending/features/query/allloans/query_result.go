package allloans

import (
	"github.com/AntonStoeckl/library-lending/lending/core"
)

type LoansOfUser struct {
	UserID         core.UserIDString
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

func (r LoansOfUser) GetSequenceNumber() uint {
	return r.SequenceNumber
}
