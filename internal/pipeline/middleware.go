package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/logger"
	"github.com/jonathan/jobfit-core/internal/types"
)

// instrumented decorates a stage agent with structured logging around
// the invoke and validate phases. All other behavior passes through.
type instrumented struct {
	agents.Agent
	log *zap.Logger
	run string
}

// WithLogging wraps an agent with zap instrumentation. Wrapping a nop
// logger is free enough that the controller always applies it.
func WithLogging(ag agents.Agent, log *zap.Logger) agents.Agent {
	if _, ok := ag.(*instrumented); ok {
		return ag
	}
	return &instrumented{Agent: ag, log: log}
}

func (a *instrumented) BuildRequest(state *types.PipelineState) (agents.Request, error) {
	a.run = state.RunID.String()
	req, err := a.Agent.BuildRequest(state)
	if err != nil {
		a.log.Warn("stage request build failed",
			zap.String(logger.FieldRun, a.run),
			zap.String(logger.FieldStage, a.Name()),
			zap.Error(err))
	}
	return req, err
}

func (a *instrumented) Invoke(ctx context.Context, req agents.Request) (agents.Raw, error) {
	start := time.Now()
	raw, err := a.Agent.Invoke(ctx, req)
	fields := []zap.Field{
		zap.String(logger.FieldRun, a.run),
		zap.String(logger.FieldStage, a.Name()),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		a.log.Error("stage invocation failed", append(fields, zap.Error(err))...)
		return raw, err
	}
	a.log.Debug("stage invoked", append(fields,
		zap.Int(logger.FieldTokens, raw.Tokens),
		zap.Bool("from_model", raw.FromModel))...)
	return raw, nil
}

func (a *instrumented) Validate(raw agents.Raw) (agents.Update, error) {
	update, err := a.Agent.Validate(raw)
	if err != nil {
		a.log.Debug("stage output failed validation",
			zap.String(logger.FieldRun, a.run),
			zap.String(logger.FieldStage, a.Name()),
			zap.Error(err))
	}
	return update, err
}
