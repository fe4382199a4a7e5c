package adapters

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const sqlStateSerializationFailure = "40001"

// IsSerializationFailure reports whether err is a Postgres serialization failure from pgx or lib/pq.
// Two conditional inserts racing at SERIALIZABLE isolation end with one of them failing this way.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlStateSerializationFailure
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == sqlStateSerializationFailure
	}

	return false
}
