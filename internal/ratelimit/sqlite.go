package ratelimit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

type implSQLite struct {
	mu    sync.Mutex
	db    *sql.DB
	limit int
	now   func() time.Time
}

// NewSQLite creates a Limiter backed by a durable sqlite table, so counts
// survive process restarts. The schema is created on first use.
func NewSQLite(db *sql.DB, limit int) (Limiter, error) {
	_, err := db.Exec(`
	create table if not exists rate_limit_entries (
		id          integer primary key autoincrement not null,
		source_addr text    not null,
		created_at  integer not null
	);
	create index if not exists idx_rate_limit_source on rate_limit_entries (source_addr, created_at);`)
	if err != nil {
		return nil, fmt.Errorf("create rate limit schema: %w", err)
	}

	return &implSQLite{
		db:    db,
		limit: limit,
		now:   time.Now,
	}, nil
}

// CheckAndRecord runs prune, count and insert inside one transaction so
// concurrent requests from the same address cannot under-count.
// Store failures are fail-open: the request is allowed and the error is
// returned for the caller to log.
func (s *implSQLite) CheckAndRecord(ctx context.Context, sourceAddr string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	cutoff := now - Window

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return true, fmt.Errorf("begin rate limit tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"delete from rate_limit_entries where created_at <= $1", cutoff); err != nil {
		return true, fmt.Errorf("prune rate limit entries: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		"select count(*) from rate_limit_entries where source_addr = $1", sourceAddr).
		Scan(&count)
	if err != nil {
		return true, fmt.Errorf("count rate limit entries: %w", err)
	}

	if count >= s.limit {
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("commit rate limit tx: %w", err)
		}
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"insert into rate_limit_entries (source_addr, created_at) values ($1, $2)",
		sourceAddr, now); err != nil {
		return true, fmt.Errorf("record rate limit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return true, fmt.Errorf("commit rate limit tx: %w", err)
	}

	return true, nil
}
