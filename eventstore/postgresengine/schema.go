package postgresengine

import "fmt"

const schemaDDL = `
CREATE TABLE IF NOT EXISTS %[1]s (
	sequence_number BIGSERIAL PRIMARY KEY,
	occurred_at     TIMESTAMPTZ NOT NULL,
	event_type      TEXT NOT NULL,
	payload         JSONB NOT NULL,
	metadata        JSONB NOT NULL DEFAULT '{}'::jsonb
);
CREATE INDEX IF NOT EXISTS %[1]s_event_type_idx ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[1]s_payload_idx ON %[1]s USING GIN (payload jsonb_path_ops);
`

// SchemaDDL returns the statements creating the events table and its indexes.
// Migrations are out of scope of this package, the statements are idempotent.
func SchemaDDL(tableName string) string {
	return fmt.Sprintf(schemaDDL, tableName)
}
