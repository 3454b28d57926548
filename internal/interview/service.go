package interview

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/logger"
	"github.com/jonathan/jobfit-core/internal/orchestration"
	"github.com/jonathan/jobfit-core/internal/types"
)

// TokenCeiling caps the tokens one interview-prep run may consume
const TokenCeiling = 4000

// Request carries the inputs for one interview-prep run
type Request struct {
	TenantID    string
	RequesterID string
	JDText      string
	Bullets     []string
	Tone        string
}

// Service runs the two interview generators concurrently. Neither
// depends on the other's output, so unlike the optimization pipeline
// there is no conditional loop and no stage ordering.
type Service struct {
	gen   agents.Generator
	quota orchestration.QuotaChecker
	usage orchestration.UsageRecorder
	log   *zap.Logger
}

// NewService constructs the interview service. quota and usage may be
// nil, matching the orchestration service contract.
func NewService(gen agents.Generator, quota orchestration.QuotaChecker, usage orchestration.UsageRecorder, log *zap.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{gen: gen, quota: quota, usage: usage, log: log}
}

// outcome is one generator's contribution, applied to state only after
// both goroutines have finished.
type outcome struct {
	update agents.Update
	errRec *types.StageError
}

// Generate produces the interview kit for one request. The kit may be
// degraded (non-empty Errors) when a generator fell back.
func (s *Service) Generate(ctx context.Context, req Request) (*types.InterviewKit, *types.UsageReport, error) {
	if s.quota != nil {
		decision, err := s.quota.CheckQuota(ctx, req.TenantID, req.RequesterID)
		if err != nil {
			return nil, nil, fmt.Errorf("quota check failed: %w", err)
		}
		if !decision.Allowed {
			return nil, nil, &orchestration.QuotaExceededError{TenantID: req.TenantID, Reason: decision.Reason}
		}
	}

	state := types.NewPipelineState(req.TenantID, req.RequesterID, req.JDText, nil, 0, 0)
	state.RewrittenBullets = req.Bullets
	state.Tone = types.NormalizeTone(req.Tone)

	questions := NewQuestionGenerator(s.gen)
	letter := NewCoverLetterGenerator(s.gen)

	// Shared across the two goroutines; the re-prompt gate reads it.
	var spent atomic.Int64
	tokens := map[string]*atomic.Int64{
		questions.Name(): {},
		letter.Name():    {},
	}

	var results [2]outcome
	g, gctx := errgroup.WithContext(ctx)
	for i, ag := range []agents.Agent{questions, letter} {
		i, ag := i, ag
		g.Go(func() error {
			out, err := s.runGenerator(gctx, ag, state, &spent, tokens[ag.Name()])
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// State is written single-threaded once both generators are done.
	for _, out := range results {
		if out.errRec != nil {
			state.Errors = append(state.Errors, *out.errRec)
		}
		out.update(state)
	}
	for stage, counter := range tokens {
		state.AddTokens(stage, int(counter.Load()))
	}

	kit := &types.InterviewKit{
		RunID:       state.RunID,
		Questions:   state.Questions,
		CoverLetter: state.CoverLetter,
		Tone:        state.Tone,
		Errors:      state.Errors,
	}
	usage := &types.UsageReport{
		RunID:       state.RunID,
		TotalTokens: state.TotalTokens,
		StageTokens: state.StageTokens,
	}

	if s.usage != nil {
		if err := s.usage.RecordUsage(ctx, req.TenantID, req.RequesterID, usage); err != nil {
			s.log.Warn("failed to record usage",
				zap.String(logger.FieldRun, state.RunID.String()),
				zap.Error(err))
		}
	}

	s.log.Info("interview kit generated",
		zap.String(logger.FieldRun, state.RunID.String()),
		zap.String(logger.FieldTenant, req.TenantID),
		zap.Int("questions", len(kit.Questions)),
		zap.Int(logger.FieldTokens, usage.TotalTokens),
		zap.Bool("degraded", kit.Degraded()))

	return kit, usage, nil
}

// runGenerator drives one generator through the three phases. A schema
// rejection earns one stricter re-prompt, but only while the shared
// token ceiling has headroom; otherwise the fallback applies directly.
func (s *Service) runGenerator(ctx context.Context, ag agents.Agent, state *types.PipelineState, spent *atomic.Int64, stageTokens *atomic.Int64) (outcome, error) {
	req, err := ag.BuildRequest(state)
	if err != nil {
		return outcome{}, err
	}

	raw, err := ag.Invoke(ctx, req)
	if err != nil {
		return outcome{
			update: ag.Fallback(agents.Raw{}),
			errRec: &types.StageError{Stage: ag.Name(), Kind: types.ErrKindBackend, Message: err.Error(), Continued: true},
		}, nil
	}
	spent.Add(int64(raw.Tokens))
	stageTokens.Add(int64(raw.Tokens))

	update, verr := ag.Validate(raw)
	if verr == nil {
		return outcome{update: update}, nil
	}

	// The strict re-prompt targets structured output; a plain-text
	// stage that produced an unusable result falls back immediately.
	if !req.Prompt.JSON {
		return outcome{
			update: ag.Fallback(raw),
			errRec: &types.StageError{Stage: ag.Name(), Kind: types.ErrKindSchema, Message: verr.Error(), Continued: true},
		}, nil
	}
	if spent.Load() >= TokenCeiling {
		return outcome{
			update: ag.Fallback(raw),
			errRec: &types.StageError{Stage: ag.Name(), Kind: types.ErrKindBudget, Message: "token ceiling reached, skipping re-prompt", Continued: true},
		}, nil
	}

	raw, err = ag.Invoke(ctx, agents.WithStrictRetry(req, verr.Error()))
	if err != nil {
		return outcome{
			update: ag.Fallback(agents.Raw{}),
			errRec: &types.StageError{Stage: ag.Name(), Kind: types.ErrKindBackend, Message: err.Error(), Continued: true},
		}, nil
	}
	spent.Add(int64(raw.Tokens))
	stageTokens.Add(int64(raw.Tokens))

	update, verr = ag.Validate(raw)
	if verr == nil {
		return outcome{update: update}, nil
	}
	return outcome{
		update: ag.Fallback(raw),
		errRec: &types.StageError{Stage: ag.Name(), Kind: types.ErrKindSchema, Message: verr.Error(), Continued: true},
	}, nil
}
