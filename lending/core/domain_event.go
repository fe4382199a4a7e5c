package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent is a business fact that has been (or is about to be) recorded.
type DomainEvent interface {
	EventType() string
	HasOccurredAt() time.Time
}
