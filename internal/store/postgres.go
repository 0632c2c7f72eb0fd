package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store using PostgreSQL, for operators who want PR
// history to survive restarts. Only this package and main touch the pool.
//
// Expected schema:
//
//	CREATE TABLE pr_events (
//	    delivery_id TEXT PRIMARY KEY,
//	    action      TEXT NOT NULL,
//	    pr_url      TEXT NOT NULL,
//	    repo        TEXT NOT NULL,
//	    pr_number   INT NOT NULL,
//	    received_at TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE pr_results (
//	    id              BIGSERIAL PRIMARY KEY,
//	    pr_url          TEXT NOT NULL,
//	    repo            TEXT NOT NULL,
//	    pr_number       INT NOT NULL,
//	    received_at     TIMESTAMPTZ NOT NULL,
//	    processed_at    TIMESTAMPTZ NOT NULL,
//	    processing_secs DOUBLE PRECISION NOT NULL,
//	    status          TEXT NOT NULL,
//	    update_needed   BOOLEAN NOT NULL,
//	    reason          TEXT NOT NULL DEFAULT '',
//	    comment_posted  BOOLEAN NOT NULL
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the given pool. Caller owns the pool
// and must close it when done.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// RecordEvent inserts a webhook delivery. Returns (false, nil) when the
// delivery ID was already recorded, making redelivered webhooks idempotent.
func (p *Postgres) RecordEvent(ctx context.Context, event *EventRow) (bool, error) {
	cmd, err := p.pool.Exec(ctx, `
		INSERT INTO pr_events (delivery_id, action, pr_url, repo, pr_number, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (delivery_id) DO NOTHING
	`, event.DeliveryID, event.Action, event.PRURL, event.Repo, event.PRNumber, event.ReceivedAt)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// RecordResult inserts a processing outcome.
func (p *Postgres) RecordResult(ctx context.Context, result *ResultRow) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO pr_results (pr_url, repo, pr_number, received_at, processed_at,
			processing_secs, status, update_needed, reason, comment_posted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, result.PRURL, result.Repo, result.PRNumber, result.ReceivedAt, result.ProcessedAt,
		result.ProcessingSecs, result.Status, result.UpdateNeeded, result.Reason, result.CommentPosted)
	return err
}

// RecentResults returns up to limit results, oldest first.
func (p *Postgres) RecentResults(ctx context.Context, limit int) ([]ResultRow, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := p.pool.Query(ctx, `
		SELECT pr_url, repo, pr_number, received_at, processed_at,
			processing_secs, status, update_needed, reason, comment_posted
		FROM pr_results
		ORDER BY processed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.PRURL, &r.Repo, &r.PRNumber, &r.ReceivedAt, &r.ProcessedAt,
			&r.ProcessingSecs, &r.Status, &r.UpdateNeeded, &r.Reason, &r.CommentPosted); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Query is newest-first for the LIMIT; callers expect oldest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (p *Postgres) EventCount(ctx context.Context) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pr_events`).Scan(&n)
	return n, err
}

func (p *Postgres) ResultCount(ctx context.Context) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pr_results`).Scan(&n)
	return n, err
}

// Ping checks the database connection.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
