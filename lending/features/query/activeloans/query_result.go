package activeloans

import (
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// ActiveLoans lists the open loans of one user, newest borrow first.
type ActiveLoans struct {
	UserID         core.UserIDString
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

func (r ActiveLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
