// Package orchestration exposes the optimization entry point the outer
// API layer calls. It owns the admission check, per-run state creation,
// and the mapping of terminal pipeline state to the caller-facing
// result and usage report.
package orchestration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/config"
	"github.com/jonathan/jobfit-core/internal/logger"
	"github.com/jonathan/jobfit-core/internal/pipeline"
	"github.com/jonathan/jobfit-core/internal/types"
)

// QuotaDecision is the outcome of the external admission check
type QuotaDecision struct {
	Allowed bool
	Reason  string
}

// QuotaChecker is the external quota/billing admission collaborator
type QuotaChecker interface {
	CheckQuota(ctx context.Context, tenantID, requesterID string) (QuotaDecision, error)
}

// UsageRecorder receives the token accounting after a completed run.
// The implementation must apply per-tenant counter updates atomically.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, tenantID, requesterID string, report *types.UsageReport) error
}

// ResultRepository persists the terminal result projection
type ResultRepository interface {
	SaveResult(ctx context.Context, tenantID string, result *types.Result) error
}

// RunIndex is the retrieval index surface the service needs: search for
// the pipeline plus run-scoped seeding and cleanup.
type RunIndex interface {
	Search(tenantID string, queryTerms []string, topK int, scopeID string) []types.RankedChunk
	Upsert(tenantID, scopeID string, chunks []types.ResumeChunk)
	Remove(tenantID, scopeID string)
}

// QuotaExceededError is returned when the admission check denies a run.
// No pipeline state is created and no model call is made on this path.
type QuotaExceededError struct {
	TenantID string
	Reason   string
}

func (e *QuotaExceededError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("quota exceeded for tenant %s: %s", e.TenantID, e.Reason)
	}
	return fmt.Sprintf("quota exceeded for tenant %s", e.TenantID)
}

// Service wires the shared model invoker and retrieval index to the
// external collaborators. Safe for concurrent runs: each run owns a
// fresh pipeline state and controller.
type Service struct {
	gen     agents.Generator
	index   RunIndex
	opts    config.Options
	quota   QuotaChecker
	usage   UsageRecorder
	results ResultRepository
	log     *zap.Logger
}

// NewService constructs the orchestration service. quota, usage and
// results may be nil: a nil quota checker admits every run, nil
// recorders skip persistence (the CLI path without a database).
func NewService(gen agents.Generator, index RunIndex, opts config.Options, quota QuotaChecker, usage UsageRecorder, results ResultRepository, log *zap.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		gen:     gen,
		index:   index,
		opts:    opts,
		quota:   quota,
		usage:   usage,
		results: results,
		log:     log,
	}
}

// RunOptimization executes one full optimization run for a tenant.
// The returned Result may be degraded (non-empty Errors); a non-nil
// error means no usable result exists.
func (s *Service) RunOptimization(ctx context.Context, tenantID, requesterID, jdText string, chunks []types.ResumeChunk) (*types.Result, *types.UsageReport, error) {
	if s.quota != nil {
		decision, err := s.quota.CheckQuota(ctx, tenantID, requesterID)
		if err != nil {
			return nil, nil, fmt.Errorf("quota check failed: %w", err)
		}
		if !decision.Allowed {
			return nil, nil, &QuotaExceededError{TenantID: tenantID, Reason: decision.Reason}
		}
	}

	state := types.NewPipelineState(tenantID, requesterID, jdText, chunks,
		s.opts.ScoreThreshold, s.opts.MaxRewriteAttempts)
	scope := state.RunID.String()

	s.index.Upsert(tenantID, scope, chunks)
	defer s.index.Remove(tenantID, scope)

	s.log.Info("optimization run starting",
		zap.String(logger.FieldRun, scope),
		zap.String(logger.FieldTenant, tenantID),
		zap.Int("chunks", len(chunks)))

	ctrl := pipeline.NewController(
		agents.NewRequirementExtractor(s.gen),
		agents.NewChunkRetriever(s.index, s.opts.TopKChunks),
		agents.NewContentRewriter(s.gen),
		agents.NewCompatibilityScorer(s.gen).WithRuleConfidence(s.opts.RuleConfidence),
		agents.NewGapAnalyzer(s.gen),
		s.opts.Budget(),
		s.log,
	)

	if err := ctrl.Run(ctx, state); err != nil {
		s.log.Error("optimization run aborted",
			zap.String(logger.FieldRun, scope),
			zap.String(logger.FieldTenant, tenantID),
			zap.Error(err))
		return nil, nil, err
	}

	result, usage := pipeline.Aggregate(state)

	if s.results != nil {
		if err := s.results.SaveResult(ctx, tenantID, result); err != nil {
			s.log.Warn("failed to persist result",
				zap.String(logger.FieldRun, scope),
				zap.Error(err))
		}
	}
	if s.usage != nil {
		if err := s.usage.RecordUsage(ctx, tenantID, requesterID, usage); err != nil {
			s.log.Warn("failed to record usage",
				zap.String(logger.FieldRun, scope),
				zap.Error(err))
		}
	}

	s.log.Info("optimization run complete",
		zap.String(logger.FieldRun, scope),
		zap.String(logger.FieldTenant, tenantID),
		zap.Float64("score", result.Score),
		zap.Int(logger.FieldTokens, usage.TotalTokens),
		zap.Bool("degraded", result.Degraded()))

	return result, usage, nil
}
