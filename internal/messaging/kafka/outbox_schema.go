package kafka

import (
	"context"
	"database/sql"
)

const outboxSchema = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id             UUID PRIMARY KEY,
	request_id     VARCHAR(64),
	aggregate_type VARCHAR(50) NOT NULL,
	aggregate_id   VARCHAR(64) NOT NULL,
	event_type     VARCHAR(50) NOT NULL,
	topic          VARCHAR(100) NOT NULL,
	payload        JSONB NOT NULL,
	status         VARCHAR(10) NOT NULL,
	retry_count    INT NOT NULL DEFAULT 0,
	error_message  TEXT,
	next_retry_at  TIMESTAMPTZ,
	processed_at   TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (status, created_at);
`

// EnsureOutboxSchema creates the outbox table when it does not exist yet.
func EnsureOutboxSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, outboxSchema)
	return err
}
