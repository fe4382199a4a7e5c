package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/library-lending/eventstore"
)

// stdRows wraps *sql.Rows for the sql.DB and sqlx.DB adapters.
type stdRows struct {
	rows *sql.Rows
}

func (s *stdRows) Next() bool {
	return s.rows.Next()
}

func (s *stdRows) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

func (s *stdRows) Err() error {
	return s.rows.Err()
}

func (s *stdRows) Close() error {
	return s.rows.Close()
}

type stdResult struct {
	result sql.Result
}

func (s *stdResult) RowsAffected() (int64, error) {
	return s.result.RowsAffected()
}

// useReplica reports whether a read may go to the replica.
func useReplica(ctx context.Context, hasReplica bool) bool {
	return hasReplica && eventstore.GetConsistencyLevel(ctx) == eventstore.EventualConsistency
}
