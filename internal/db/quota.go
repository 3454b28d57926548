package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobfit-core/internal/orchestration"
)

// QuotaStore answers the admission check against the tenant plan table
type QuotaStore struct {
	db *DB
}

// CheckQuota reads the tenant's plan row and decides admission. A
// missing tenant row denies: provisioning creates the row, so its
// absence means the tenant was never set up.
func (s *QuotaStore) CheckQuota(ctx context.Context, tenantID, requesterID string) (orchestration.QuotaDecision, error) {
	var monthlyLimit, used int
	var suspended bool

	err := s.db.pool.QueryRow(ctx,
		`SELECT monthly_limit, used, suspended
		 FROM tenant_quotas
		 WHERE tenant_id = $1`,
		tenantID,
	).Scan(&monthlyLimit, &used, &suspended)
	if err != nil {
		if err == pgx.ErrNoRows {
			return orchestration.QuotaDecision{Allowed: false, Reason: "unknown tenant"}, nil
		}
		return orchestration.QuotaDecision{}, fmt.Errorf("failed to read quota for tenant %s: %w", tenantID, err)
	}

	if suspended {
		return orchestration.QuotaDecision{Allowed: false, Reason: "tenant suspended"}, nil
	}
	if used >= monthlyLimit {
		return orchestration.QuotaDecision{Allowed: false, Reason: fmt.Sprintf("monthly limit reached (%d/%d)", used, monthlyLimit)}, nil
	}
	return orchestration.QuotaDecision{Allowed: true}, nil
}
