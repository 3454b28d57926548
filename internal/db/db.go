// Package db provides the PostgreSQL-backed collaborator
// implementations consumed by the orchestration service: quota
// admission, usage accounting and result persistence.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Quota returns the quota admission store
func (db *DB) Quota() *QuotaStore {
	return &QuotaStore{db: db}
}

// Usage returns the usage accounting store
func (db *DB) Usage() *UsageStore {
	return &UsageStore{db: db}
}

// Runs returns the result persistence store
func (db *DB) Runs() *RunStore {
	return &RunStore{db: db}
}
