//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Error kinds recorded in PipelineState.Errors
const (
	ErrKindSchema    = "schema_validation"
	ErrKindBackend   = "backend"
	ErrKindBudget    = "budget_exceeded"
	ErrKindRetrieval = "retrieval"
)

// StageError is a non-fatal error record accumulated during a run
type StageError struct {
	Stage     string `json:"stage"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Continued bool   `json:"continued"`
}

// PipelineState is the mutable record threaded through one optimization
// run. It is exclusively owned by a single pipeline controller instance:
// stages run sequentially, so no synchronization is needed. Fields are
// append-only within a run; a retry of a stage overwrites that stage's
// fields but never clears another stage's output.
type PipelineState struct {
	// Inputs, set once by the orchestration service
	TenantID    string        `json:"tenant_id"`
	RequesterID string        `json:"requester_id"`
	RunID       uuid.UUID     `json:"run_id"`
	JDText      string        `json:"jd_text"`
	Chunks      []ResumeChunk `json:"chunks"`

	// Requirement extractor output
	Requirements *RequirementProfile `json:"requirements,omitempty"`

	// Chunk retriever output
	RetrievedChunks []RankedChunk `json:"retrieved_chunks,omitempty"`

	// Content rewriter output
	RewrittenBullets []string `json:"rewritten_bullets,omitempty"`
	RewriteAttempts  int      `json:"rewrite_attempts"`

	// Compatibility scorer output
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Scored    bool           `json:"scored"`

	// Gap analyzer output
	Gaps *GapReport `json:"gaps,omitempty"`

	// Interview pipeline output
	Questions   []InterviewQuestion `json:"questions,omitempty"`
	CoverLetter string              `json:"cover_letter,omitempty"`
	Tone        string              `json:"tone,omitempty"`

	// Control fields
	ScoreThreshold float64        `json:"score_threshold"`
	MaxAttempts    int            `json:"max_attempts"`
	CurrentStage   string         `json:"current_stage"`
	Errors         []StageError   `json:"errors"`
	StageTokens    map[string]int `json:"stage_tokens"`
	TotalTokens    int            `json:"total_tokens"`
	ModelCalls     int            `json:"model_calls"`
	StartedAt      time.Time      `json:"started_at"`
}

// NewPipelineState constructs the fresh state for one run
func NewPipelineState(tenantID, requesterID, jdText string, chunks []ResumeChunk, threshold float64, maxAttempts int) *PipelineState {
	return &PipelineState{
		TenantID:       tenantID,
		RequesterID:    requesterID,
		RunID:          uuid.New(),
		JDText:         jdText,
		Chunks:         chunks,
		ScoreThreshold: threshold,
		MaxAttempts:    maxAttempts,
		StageTokens:    make(map[string]int),
		StartedAt:      time.Now(),
	}
}

// RecordError appends a non-fatal error record
func (s *PipelineState) RecordError(stage, kind, message string, continued bool) {
	s.Errors = append(s.Errors, StageError{
		Stage:     stage,
		Kind:      kind,
		Message:   message,
		Continued: continued,
	})
}

// AddTokens accumulates token usage for a stage. Retried stages add to
// their existing count rather than replacing it, so the total reflects
// every billable call made during the run.
func (s *PipelineState) AddTokens(stage string, tokens int) {
	if tokens <= 0 {
		return
	}
	s.StageTokens[stage] += tokens
	s.TotalTokens += tokens
}

// Elapsed returns wall-clock time since the run started
func (s *PipelineState) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}
