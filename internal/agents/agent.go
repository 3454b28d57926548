// Package agents implements the pipeline stage agents. Every stage
// exposes the same three-phase contract — build a request from state,
// invoke the backend, validate the raw output into a partial state
// update — so the controller can drive them uniformly. The agent set is
// closed and known at compile time.
package agents

import (
	"context"

	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	"github.com/jonathan/jobfit-core/internal/types"
)

// Stage names, used for token accounting and error records
const (
	StageRequirementExtraction = "requirement_extraction"
	StageChunkRetrieval        = "chunk_retrieval"
	StageContentRewriting      = "content_rewriting"
	StageCompatibilityScoring  = "compatibility_scoring"
	StageGapAnalysis           = "gap_analysis"
)

// Generator is the slice of the model invoker the agents depend on.
// *llm.Invoker satisfies it; tests substitute a stub.
type Generator interface {
	Invoke(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Request is the stage invocation payload. Model-backed stages populate
// Prompt; the retrieval stage populates the query fields instead. The
// variants are closed: a stage fills exactly one of them.
type Request struct {
	Prompt llm.Request

	// Retrieval-only fields
	Tenant string
	Scope  string
	Query  []string
	TopK   int

	// Scorer fast path: rule-based score computed at build time
	ruleScore *ruleScore
}

// Raw is the untyped output of a stage invocation before validation.
// FromModel marks output that consumed a model call, which feeds the
// controller's call-count guardrail; retrieval and the scorer fast path
// leave it false.
type Raw struct {
	Text      string
	Tokens    int
	Chunks    []types.RankedChunk
	FromModel bool
}

// Update is a partial state update produced by a stage's validate phase.
// Each agent exclusively owns the fields its updates write.
type Update func(*types.PipelineState)

// StageResult is the return contract of one completed stage invocation
type StageResult struct {
	Update Update
	Tokens int
}

// Agent is the uniform three-operation stage contract
type Agent interface {
	// Name returns the stage name
	Name() string
	// Fatal reports whether unrecoverable validation failure aborts the
	// run instead of applying a fallback
	Fatal() bool
	// BuildRequest assembles the stage request from pipeline state
	BuildRequest(state *types.PipelineState) (Request, error)
	// Invoke executes the request against the backend
	Invoke(ctx context.Context, req Request) (Raw, error)
	// Validate checks raw output against the stage schema and produces
	// the partial state update
	Validate(raw Raw) (Update, error)
	// Fallback produces the stage's documented degraded update, used
	// after validation fails twice. Only called when Fatal() is false.
	Fallback(raw Raw) Update
}

// WithStrictRetry appends the stricter follow-up instruction to the last
// user segment of a model-backed request. Used by the controller for the
// single re-prompt after a schema rejection.
func WithStrictRetry(req Request, validationSummary string) Request {
	suffix := prompts.Format(prompts.MustGet("optimization.json", "strict-retry"), map[string]string{
		"Errors": validationSummary,
	})
	segments := make([]llm.Segment, len(req.Prompt.Segments))
	copy(segments, req.Prompt.Segments)
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Role == llm.RoleUser {
			segments[i].Content += suffix
			break
		}
	}
	req.Prompt.Segments = segments
	return req
}
