package core

import (
	"time"
)

// Some alias types instead of full value objects, the payloads stay plain JSON strings.

type BookIDString = string

type UserIDString = string

type LoanIDString = string

type ISBNString = string

type RecommendationIDString = string

// OccurredAt is when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt normalizes to UTC with microsecond precision, which all storage engines can round trip.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}
