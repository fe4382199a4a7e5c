// Package config loads the service configuration and builds the infrastructure it describes.
//
// Configuration comes from an optional YAML file, overridden by LIBRARY_* environment variables,
// which in turn may be seeded from a .env file. Beyond loading, the package contains the factories
// the process wiring needs:
//
//   - Postgres connections for pgx.Pool, sql.DB (lib/pq) and sqlx.DB with pool limits and
//     SERIALIZABLE transaction isolation
//   - the event store of the configured driver: memory, sqlite or postgres
//   - the policy provider with the configured loan terms
//   - OpenTelemetry tracer and meter providers and the JSON slog logger
//
// This package is part of the shell (infrastructure) layer.
package config
