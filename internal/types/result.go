//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// Result is the terminal projection of a pipeline run handed back to the
// caller. A Result with a non-empty Errors list is degraded but valid;
// callers inspect Errors for the degradation reasons.
type Result struct {
	RunID            uuid.UUID           `json:"run_id"`
	Requirements     *RequirementProfile `json:"requirements"`
	RewrittenBullets []string            `json:"rewritten_bullets"`
	Score            float64             `json:"score"`
	Breakdown        ScoreBreakdown      `json:"breakdown"`
	Gaps             *GapReport          `json:"gaps"`
	RewriteAttempts  int                 `json:"rewrite_attempts"`
	Errors           []StageError        `json:"errors"`
}

// Degraded reports whether any stage recorded a non-fatal error
func (r *Result) Degraded() bool {
	return len(r.Errors) > 0
}

// UsageReport carries token accounting for the billing collaborator
type UsageReport struct {
	RunID       uuid.UUID      `json:"run_id"`
	TotalTokens int            `json:"total_tokens"`
	StageTokens map[string]int `json:"stage_tokens"`
}
