// Package adapters lets the Postgres engine run on pgxpool.Pool, *sql.DB (lib/pq) or *sqlx.DB.
// Each adapter optionally holds a replica connection which serves queries marked with
// eventstore.WithEventualConsistency.
package adapters
