package recommendations

import (
	"github.com/AntonStoeckl/library-lending/lending/core"
)

// Recommendations are ordered newest submission first.
type Recommendations struct {
	Recommendations []core.Recommendation
	Count           int
	PendingCount    int
	SequenceNumber  uint
}

func (r Recommendations) GetSequenceNumber() uint {
	return r.SequenceNumber
}
