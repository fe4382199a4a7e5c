package memoryengine

import (
	"context"
	"errors"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending/eventstore"
	"github.com/AntonStoeckl/library-lending/eventstore/internal/instrumentation"
)

const (
	engineName = "memory"

	logMsgContextDone    = "context done before the operation started"
	logMsgDecodeFailed   = "failed to decode payload for filter evaluation"
	logMsgNothingToWrite = "append called without events"
)

// EventStore keeps all events in memory. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu       sync.RWMutex
	events   []storedEvent
	observer instrumentation.Observer
}

type storedEvent struct {
	sequenceNumber eventstore.MaxSequenceNumberUint
	event          eventstore.StorableEvent
	fields         map[string]string
}

func (se storedEvent) fieldOf(key string) (string, bool) {
	val, ok := se.fields[key]
	return val, ok
}

func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		observer: instrumentation.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching the filter in append order and the highest matching sequence number.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, op := es.observer.StartQuery(ctx)

	if err := ctx.Err(); err != nil {
		op.Failed(instrumentation.ErrorTypeContextTimeout, logMsgContextDone, err)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	events, maxSequenceNumber := es.matching(filter)
	es.mu.RUnlock()

	op.QuerySucceeded(events, maxSequenceNumber)

	return events, maxSequenceNumber, nil
}

// Append stores the events if no event matching the filter was appended after expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	events ...eventstore.StorableEvent,
) error {

	ctx, op := es.observer.StartAppend(ctx, events, expectedMaxSequenceNumber)

	if len(events) == 0 {
		op.Failed(instrumentation.ErrorTypeBuildQuery, logMsgNothingToWrite, eventstore.ErrNoEventsToAppend)
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		op.Failed(instrumentation.ErrorTypeContextTimeout, logMsgContextDone, err)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	toStore := make([]storedEvent, 0, len(events))
	for _, event := range events {
		fields, decodeErr := decodeFields(event.PayloadJSON)
		if decodeErr != nil {
			op.Failed(instrumentation.ErrorTypeDecodePayload, logMsgDecodeFailed, decodeErr)
			return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrDecodingPayloadForFilterFailed, decodeErr)
		}

		toStore = append(toStore, storedEvent{event: event, fields: fields})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, currentMax := es.matching(filter); currentMax != expectedMaxSequenceNumber {
		op.ConcurrencyConflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(es.events))
	for i := range toStore {
		next++
		toStore[i].sequenceNumber = next
	}

	es.events = append(es.events, toStore...)
	op.AppendSucceeded(len(toStore))

	return nil
}

// matching must be called with at least the read lock held.
func (es *EventStore) matching(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, se := range es.events {
		if !filter.Matches(se.event.EventType, se.fieldOf) {
			continue
		}

		events = append(events, cloneEvent(se.event))
		maxSequenceNumber = se.sequenceNumber
	}

	return events, maxSequenceNumber
}

// decodeFields keeps the top-level string fields of a payload, the only ones predicates can match.
func decodeFields(payloadJSON []byte) (map[string]string, error) {
	var payload map[string]any
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &payload); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(payload))
	for key, val := range payload {
		if s, ok := val.(string); ok {
			fields[key] = s
		}
	}

	return fields, nil
}

func cloneEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}
