package shell

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/lending/core"
)

var (
	ErrMappingToDomainEventFailed           = errors.New("mapping to domain event failed")
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts in order and stops at the first failure.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.BookAddedToCatalogEventType:
		return unmarshal[core.BookAddedToCatalog](storableEvent.PayloadJSON)

	case core.BookCopiesChangedEventType:
		return unmarshal[core.BookCopiesChanged](storableEvent.PayloadJSON)

	case core.BookRemovedFromCatalogEventType:
		return unmarshal[core.BookRemovedFromCatalog](storableEvent.PayloadJSON)

	case core.BookBorrowedEventType:
		return unmarshal[core.BookBorrowed](storableEvent.PayloadJSON)

	case core.BookReturnedEventType:
		return unmarshal[core.BookReturned](storableEvent.PayloadJSON)

	case core.RecommendationSubmittedEventType:
		return unmarshal[core.RecommendationSubmitted](storableEvent.PayloadJSON)

	case core.RecommendationDecidedEventType:
		return unmarshal[core.RecommendationDecided](storableEvent.PayloadJSON)

	default:
		return nil, errors.Join(
			ErrMappingToDomainEventFailed,
			fmt.Errorf("%w: %q", ErrMappingToDomainEventUnknownEventType, storableEvent.EventType),
		)
	}
}

func unmarshal[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var payload E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return payload, nil
}
