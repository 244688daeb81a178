package journal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const logPrefix = "journal:pg"

// schemaSQL is the forward-only journal schema.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS rpc_call_journal (
    id             BIGSERIAL PRIMARY KEY,
    correlation_id TEXT        NOT NULL,
    service        TEXT        NOT NULL,
    method         TEXT        NOT NULL,
    success        BOOLEAN     NOT NULL,
    exception_path TEXT        NOT NULL DEFAULT '',
    duration_ms    BIGINT      NOT NULL,
    started_at     TIMESTAMPTZ NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS rpc_call_journal_service_method_idx
    ON rpc_call_journal (service, method);
`

// NewPool creates a new pgx connection pool from the given database URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	slog.Info(fmt.Sprintf("%s - Connecting to database", logPrefix))

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to parse database URL: %w", logPrefix, err)
	}

	// Journal writes are light; keep the pool small.
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to create pool: %w", logPrefix, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s - failed to ping database: %w", logPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Database connection established", logPrefix))
	return pool, nil
}

// Migrate applies the journal schema. Idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%s - migration failed: %w", logPrefix, err)
	}
	slog.Info(fmt.Sprintf("%s - Journal schema up to date", logPrefix))
	return nil
}

// PGRecorder persists call records to Postgres.
type PGRecorder struct {
	pool *pgxpool.Pool
}

// NewPGRecorder creates a recorder over an established pool. The caller keeps
// ownership of the pool and closes it.
func NewPGRecorder(pool *pgxpool.Pool) *PGRecorder {
	return &PGRecorder{pool: pool}
}

// RecordCall inserts one row per settled call.
func (r *PGRecorder) RecordCall(ctx context.Context, rec *CallRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rpc_call_journal
		     (correlation_id, service, method, success, exception_path, duration_ms, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.CorrelationID, rec.Service, rec.Method, rec.Success,
		rec.ExceptionPath, rec.Duration.Milliseconds(), rec.StartedAt)
	if err != nil {
		return fmt.Errorf("%s - failed to record call %s: %w", logPrefix, rec.CorrelationID, err)
	}
	return nil
}
