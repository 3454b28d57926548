// Package pipeline drives one optimization run through the staged state
// machine: requirement extraction, chunk retrieval, content rewriting,
// compatibility scoring with a bounded rewrite loop, and gap analysis.
// The stage set is closed, so the transitions are an explicit switch
// over an enum rather than a graph framework.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/logger"
	"github.com/jonathan/jobfit-core/internal/schemas"
	"github.com/jonathan/jobfit-core/internal/types"
)

// StageResultAggregation is the terminal stage name recorded on state
const StageResultAggregation = "result_aggregation"

// node is a state-machine position
type node int

const (
	nodeExtract node = iota
	nodeRetrieve
	nodeRewrite
	nodeScore
	nodeScoreCheck
	nodeGaps
	nodeAggregate
	nodeDone
)

// Budget holds the run-level guardrails. Zero values disable a check.
type Budget struct {
	MaxTotalTokens int
	MaxLatency     time.Duration
	MaxModelCalls  int
}

// DefaultBudget mirrors the production ceilings
func DefaultBudget() Budget {
	return Budget{
		MaxTotalTokens: 7000,
		MaxLatency:     55 * time.Second,
		MaxModelCalls:  6,
	}
}

// Controller owns one run's stage agents and budget policy. It is not
// safe for concurrent use; the orchestration service builds one per run.
type Controller struct {
	extractor agents.Agent
	retriever agents.Agent
	rewriter  agents.Agent
	scorer    agents.Agent
	gaps      agents.Agent

	budget Budget
	log    *zap.Logger
}

// NewController wires the five stage agents under the shared budget.
// Pass logger.Nop() to disable instrumentation.
func NewController(extractor, retriever, rewriter, scorer, gaps agents.Agent, budget Budget, log *zap.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		extractor: WithLogging(extractor, log),
		retriever: WithLogging(retriever, log),
		rewriter:  WithLogging(rewriter, log),
		scorer:    WithLogging(scorer, log),
		gaps:      WithLogging(gaps, log),
		budget:    budget,
		log:       log,
	}
}

// Run executes the state machine to completion, mutating state in
// place. A nil return means the run reached aggregation; the state may
// still carry non-fatal error records (degraded result). A non-nil
// return means the run aborted and the state is not a usable result.
func (c *Controller) Run(ctx context.Context, state *types.PipelineState) error {
	current := nodeExtract

	for current != nodeDone {
		switch current {
		case nodeExtract:
			if err := c.runStage(ctx, c.extractor, state); err != nil {
				return err
			}
			current = c.next(ctx, state, nodeRetrieve)

		case nodeRetrieve:
			if err := c.runStage(ctx, c.retriever, state); err != nil {
				return err
			}
			current = c.next(ctx, state, nodeRewrite)

		case nodeRewrite:
			if err := c.runStage(ctx, c.rewriter, state); err != nil {
				return err
			}
			current = c.next(ctx, state, nodeScore)

		case nodeScore:
			if err := c.runStage(ctx, c.scorer, state); err != nil {
				return err
			}
			current = c.next(ctx, state, nodeScoreCheck)

		case nodeScoreCheck:
			current = c.scoreCheck(state)

		case nodeGaps:
			if err := c.runStage(ctx, c.gaps, state); err != nil {
				return err
			}
			current = c.next(ctx, state, nodeAggregate)

		case nodeAggregate:
			state.CurrentStage = StageResultAggregation
			current = nodeDone
		}
	}

	if state.CurrentStage != StageResultAggregation {
		return &agents.AgentExecutionError{Stage: state.CurrentStage, Message: "run cancelled", Cause: ctx.Err()}
	}
	return nil
}

// next applies the post-stage checkpoints: cancellation first, then the
// budget guardrails in fixed order (tokens, latency, calls). A breach
// short-circuits to aggregation; the run still completes.
func (c *Controller) next(ctx context.Context, state *types.PipelineState, proposed node) node {
	if ctx.Err() != nil {
		return nodeDone
	}
	if breach := c.breachedGuardrail(state); breach != "" {
		c.log.Warn("budget guardrail breached, short-circuiting to aggregation",
			zap.String(logger.FieldRun, state.RunID.String()),
			zap.String(logger.FieldStage, state.CurrentStage),
			zap.String("guardrail", breach))
		state.RecordError(state.CurrentStage, types.ErrKindBudget, breach, true)
		return nodeAggregate
	}
	return proposed
}

func (c *Controller) breachedGuardrail(state *types.PipelineState) string {
	if c.budget.MaxTotalTokens > 0 && state.TotalTokens > c.budget.MaxTotalTokens {
		return fmt.Sprintf("token budget exceeded: %d > %d", state.TotalTokens, c.budget.MaxTotalTokens)
	}
	if c.budget.MaxLatency > 0 && state.Elapsed() > c.budget.MaxLatency {
		return fmt.Sprintf("latency budget exceeded: %s > %s", state.Elapsed().Round(time.Millisecond), c.budget.MaxLatency)
	}
	if c.budget.MaxModelCalls > 0 && state.ModelCalls > c.budget.MaxModelCalls {
		return fmt.Sprintf("model call budget exceeded: %d > %d", state.ModelCalls, c.budget.MaxModelCalls)
	}
	return ""
}

// scoreCheck is the rewrite-loop decision point. Exhausting the retry
// allowance is an expected outcome, not an error: the run proceeds to
// gap analysis carrying the last-computed score.
func (c *Controller) scoreCheck(state *types.PipelineState) node {
	if state.Score >= state.ScoreThreshold {
		return nodeGaps
	}
	if state.RewriteAttempts < state.MaxAttempts {
		state.RewriteAttempts++
		c.log.Info("score below threshold, retrying rewrite",
			zap.String(logger.FieldRun, state.RunID.String()),
			zap.Float64("score", state.Score),
			zap.Float64("threshold", state.ScoreThreshold),
			zap.Int(logger.FieldAttempt, state.RewriteAttempts))
		return nodeRewrite
	}
	return nodeGaps
}

// runStage drives one agent through build, invoke, validate. A schema
// rejection earns a single stricter re-prompt; a second rejection (or a
// backend failure that survived the invoker's own retries) applies the
// stage fallback for non-fatal stages and aborts for fatal ones.
func (c *Controller) runStage(ctx context.Context, ag agents.Agent, state *types.PipelineState) error {
	name := ag.Name()
	state.CurrentStage = name

	req, err := ag.BuildRequest(state)
	if err != nil {
		// build failures are precondition violations, never retried
		return err
	}

	raw, err := ag.Invoke(ctx, req)
	if err != nil {
		return c.degrade(ag, state, invokeErrKind(name), err, agents.Raw{})
	}
	c.account(state, name, raw)

	update, verr := ag.Validate(raw)
	if verr == nil {
		update(state)
		return nil
	}

	c.log.Warn("stage output rejected, re-prompting once",
		zap.String(logger.FieldRun, state.RunID.String()),
		zap.String(logger.FieldStage, name),
		zap.Error(verr))

	raw, err = ag.Invoke(ctx, agents.WithStrictRetry(req, validationSummary(verr)))
	if err != nil {
		return c.degrade(ag, state, invokeErrKind(name), err, agents.Raw{})
	}
	c.account(state, name, raw)

	update, verr = ag.Validate(raw)
	if verr == nil {
		update(state)
		return nil
	}
	return c.degrade(ag, state, types.ErrKindSchema, verr, raw)
}

// degrade applies the stage's documented fallback and records the error
// for non-fatal stages; fatal stages abort the run.
func (c *Controller) degrade(ag agents.Agent, state *types.PipelineState, kind string, cause error, raw agents.Raw) error {
	if ag.Fatal() {
		return &agents.AgentExecutionError{Stage: ag.Name(), Message: "unrecoverable stage failure", Cause: cause}
	}
	state.RecordError(ag.Name(), kind, cause.Error(), true)
	ag.Fallback(raw)(state)
	return nil
}

// account folds a stage invocation into the token and call counters.
// Retried invocations accumulate; every billable call counts.
func (c *Controller) account(state *types.PipelineState, stage string, raw agents.Raw) {
	state.AddTokens(stage, raw.Tokens)
	if raw.FromModel {
		state.ModelCalls++
	}
}

func invokeErrKind(stage string) string {
	if stage == agents.StageChunkRetrieval {
		return types.ErrKindRetrieval
	}
	return types.ErrKindBackend
}

// validationSummary flattens a validation failure into the single line
// embedded in the strict re-prompt.
func validationSummary(err error) string {
	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		return ve.Summary()
	}
	return err.Error()
}

// Aggregate maps a terminal state to the caller-facing projections. The
// state itself is discarded after this; only the Result is persisted.
func Aggregate(state *types.PipelineState) (*types.Result, *types.UsageReport) {
	result := &types.Result{
		RunID:            state.RunID,
		Requirements:     state.Requirements,
		RewrittenBullets: state.RewrittenBullets,
		Score:            state.Score,
		Breakdown:        state.Breakdown,
		Gaps:             state.Gaps,
		RewriteAttempts:  state.RewriteAttempts,
		Errors:           state.Errors,
	}
	usage := &types.UsageReport{
		RunID:       state.RunID,
		TotalTokens: state.TotalTokens,
		StageTokens: state.StageTokens,
	}
	return result, usage
}
