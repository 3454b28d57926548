package db

import (
	"context"
	"fmt"

	"github.com/jonathan/jobfit-core/internal/types"
)

// UsageStore records per-run token usage and advances the tenant's
// monthly counter.
type UsageStore struct {
	db *DB
}

// RecordUsage writes the run's usage row and increments the tenant
// counter in one transaction, so concurrent runs never lose an update.
func (s *UsageStore) RecordUsage(ctx context.Context, tenantID, requesterID string, report *types.UsageReport) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin usage transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO usage_records (run_id, tenant_id, requester_id, total_tokens, stage_tokens)
		 VALUES ($1, $2, $3, $4, $5)`,
		report.RunID, tenantID, requesterID, report.TotalTokens, report.StageTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE tenant_quotas SET used = used + 1, updated_at = NOW() WHERE tenant_id = $1`,
		tenantID,
	)
	if err != nil {
		return fmt.Errorf("failed to advance tenant counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit usage transaction: %w", err)
	}
	return nil
}
