package eventstore

import (
	"errors"
)

var (
	ErrEmptyEventsTableName           = errors.New("empty events table name supplied")
	ErrNilDatabaseConnection          = errors.New("database connection must not be nil")
	ErrNoEventsToAppend               = errors.New("at least one event must be supplied to append")
	ErrConcurrencyConflict            = errors.New("concurrency error, the dynamic event stream was changed by another writer")
	ErrBuildingQueryFailed            = errors.New("building the query failed")
	ErrQueryingEventsFailed           = errors.New("querying events failed")
	ErrScanningDBRowFailed            = errors.New("scanning db row failed")
	ErrBuildingStorableEventFailed    = errors.New("building storable event from db row failed")
	ErrAppendingEventFailed           = errors.New("appending the event failed")
	ErrGettingRowsAffectedFailed      = errors.New("getting rows affected failed")
	ErrDecodingPayloadForFilterFailed = errors.New("decoding the payload for filter evaluation failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
