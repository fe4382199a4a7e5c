package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

type MessageID = string

type CausationID = string

type CorrelationID = string

// EventMetadata is stored next to each payload.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}

// EventMetadataFor builds metadata for a new event written inside ctx.
// Without a correlation ID in ctx the new message starts its own correlation.
func EventMetadataFor(ctx context.Context) EventMetadata {
	messageID := uuid.Must(uuid.NewV7())

	correlationID, found := CorrelationIDFrom(ctx)
	if !found {
		return BuildEventMetadata(messageID, messageID, messageID)
	}

	return BuildEventMetadata(messageID, correlationID, correlationID)
}

func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	if err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata); err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

type correlationIDKey struct{}

// WithCorrelationID marks everything written inside ctx as caused by one request.
func WithCorrelationID(ctx context.Context, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

func CorrelationIDFrom(ctx context.Context) (uuid.UUID, bool) {
	correlationID, ok := ctx.Value(correlationIDKey{}).(uuid.UUID)

	return correlationID, ok
}
