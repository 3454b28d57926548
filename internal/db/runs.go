package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobfit-core/internal/types"
)

// RunStore persists the terminal result projection of each run
type RunStore struct {
	db *DB
}

// SaveResult stores the result as JSONB, upserting on run ID so a
// retried persistence attempt never duplicates the row.
func (s *RunStore) SaveResult(ctx context.Context, tenantID string, result *types.Result) error {
	content, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO optimization_results (run_id, tenant_id, score, degraded, content)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id) DO UPDATE SET score = $3, degraded = $4, content = $5, created_at = NOW()`,
		result.RunID, tenantID, result.Score, result.Degraded(), content,
	)
	if err != nil {
		return fmt.Errorf("failed to save result for run %s: %w", result.RunID, err)
	}
	return nil
}

// GetResult loads a run's persisted result, or nil when absent
func (s *RunStore) GetResult(ctx context.Context, runID uuid.UUID) (*types.Result, error) {
	var content []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT content FROM optimization_results WHERE run_id = $1`,
		runID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result for run %s: %w", runID, err)
	}

	var result types.Result
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}
