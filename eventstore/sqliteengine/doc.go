// Package sqliteengine is an eventstore.EventStore on an embedded SQLite database (modernc.org/sqlite,
// no cgo). Payloads are stored as JSON text and filtered with json_extract.
//
// The engine expects a *sql.DB limited to one open connection, see OpenDB. Append runs the
// sequence number check and the insert in one transaction on that connection, which serializes
// all writers.
package sqliteengine
