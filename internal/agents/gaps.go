package agents

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	ischemas "github.com/jonathan/jobfit-core/internal/schemas"
	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/jonathan/jobfit-core/schemas"
)

const gapTemperature = 0.4

// GapAnalyzer identifies requirements the resume does not demonstrate
// and produces actionable recommendations. Last model-backed stage; its
// fallback is an empty report.
type GapAnalyzer struct {
	gen Generator
}

// NewGapAnalyzer creates the gap analysis stage
func NewGapAnalyzer(gen Generator) *GapAnalyzer {
	return &GapAnalyzer{gen: gen}
}

// Name implements Agent
func (a *GapAnalyzer) Name() string { return StageGapAnalysis }

// Fatal implements Agent
func (a *GapAnalyzer) Fatal() bool { return false }

// BuildRequest implements Agent
func (a *GapAnalyzer) BuildRequest(state *types.PipelineState) (Request, error) {
	if state.Requirements == nil {
		return Request{}, &AgentExecutionError{Stage: a.Name(), Message: "requirement profile missing from state"}
	}

	req := state.Requirements
	bullets := state.RewrittenBullets
	if len(bullets) == 0 {
		// Gap analysis can still run against the raw input
		for _, chunk := range state.Chunks {
			bullets = append(bullets, chunk.Text)
		}
	}

	user := prompts.Format(prompts.MustGet("optimization.json", "gaps-user"), map[string]string{
		"HardSkills":     strings.Join(req.HardSkills, ", "),
		"SoftSkills":     strings.Join(req.SoftSkills, ", "),
		"Qualifications": strings.Join(req.Qualifications, "; "),
		"Bullets":        "- " + strings.Join(bullets, "\n- "),
	})

	return Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: prompts.MustGet("optimization.json", "gaps-system")},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierAdvanced,
			Temperature: gapTemperature,
			JSON:        true,
		},
	}, nil
}

// Invoke implements Agent
func (a *GapAnalyzer) Invoke(ctx context.Context, req Request) (Raw, error) {
	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return Raw{}, err
	}
	return Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements Agent
func (a *GapAnalyzer) Validate(raw Raw) (Update, error) {
	if err := ischemas.ValidateString(schemas.MustGet(schemas.Gaps), raw.Text); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "gap report rejected", Cause: err}
	}

	var report types.GapReport
	if err := json.Unmarshal([]byte(raw.Text), &report); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "invalid JSON from model", Cause: err}
	}

	for i, missing := range report.MissingSkills {
		if !types.ValidGapPriority(missing.Priority) {
			report.MissingSkills[i].Priority = types.PriorityMedium
		}
	}

	return func(state *types.PipelineState) {
		state.Gaps = &report
	}, nil
}

// Fallback implements Agent: an empty gap report
func (a *GapAnalyzer) Fallback(Raw) Update {
	return func(state *types.PipelineState) {
		state.Gaps = &types.GapReport{
			MissingSkills:      []types.MissingSkill{},
			Recommendations:    []string{},
			TransferableSkills: []string{},
		}
	}
}
