package sqliteengine

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // driver import
)

const (
	driverName = "sqlite"

	schemaDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number INTEGER PRIMARY KEY AUTOINCREMENT,
	occurred_at     TEXT NOT NULL,
	event_type      TEXT NOT NULL,
	payload         TEXT NOT NULL,
	metadata        TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
`
)

// OpenDB opens a SQLite database file with WAL journaling, foreign keys and a 5s busy timeout.
// The pool is limited to one connection.
func OpenDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	return db, nil
}

// CreateSchema creates the events table if it does not exist.
func CreateSchema(ctx context.Context, db *sql.DB, tableName string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(schemaDDL, tableName))
	return err
}
