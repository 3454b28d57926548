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

// DefaultRuleConfidence is the rule-based score above which the scorer
// trusts the lexical pre-score and skips the model call entirely.
const DefaultRuleConfidence = 0.72

// CompatibilityScorer evaluates the rewritten bullets against the
// requirement profile. A lexical pre-scorer runs first; when its overall
// clears the confidence threshold the model call is skipped and the
// stage reports zero tokens. Either way the external contract is the
// same: a clamped overall score plus the four-way breakdown.
type CompatibilityScorer struct {
	gen            Generator
	ruleConfidence float64
}

// NewCompatibilityScorer creates the scoring stage
func NewCompatibilityScorer(gen Generator) *CompatibilityScorer {
	return &CompatibilityScorer{gen: gen, ruleConfidence: DefaultRuleConfidence}
}

// WithRuleConfidence overrides the fast-path confidence threshold.
// A value above 1.0 disables the fast path.
func (a *CompatibilityScorer) WithRuleConfidence(threshold float64) *CompatibilityScorer {
	a.ruleConfidence = threshold
	return a
}

// Name implements Agent
func (a *CompatibilityScorer) Name() string { return StageCompatibilityScoring }

// Fatal implements Agent
func (a *CompatibilityScorer) Fatal() bool { return false }

// BuildRequest implements Agent. The rule-based pre-score is computed
// here so Invoke can decide whether the model call is needed.
func (a *CompatibilityScorer) BuildRequest(state *types.PipelineState) (Request, error) {
	if state.Requirements == nil {
		return Request{}, &AgentExecutionError{Stage: a.Name(), Message: "requirement profile missing from state"}
	}
	if len(state.RewrittenBullets) == 0 {
		return Request{}, &AgentExecutionError{Stage: a.Name(), Message: "rewritten bullets missing from state"}
	}

	req := state.Requirements
	user := prompts.Format(prompts.MustGet("optimization.json", "score-user"), map[string]string{
		"HardSkills":       strings.Join(req.HardSkills, ", "),
		"SoftSkills":       strings.Join(req.SoftSkills, ", "),
		"Responsibilities": strings.Join(req.Responsibilities, "; "),
		"Keywords":         strings.Join(req.Keywords(), ", "),
		"Bullets":          "- " + strings.Join(state.RewrittenBullets, "\n- "),
	})

	rule := ruleBasedScore(req, state.RewrittenBullets)
	return Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: prompts.MustGet("optimization.json", "score-system")},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierLite,
			Temperature: 0,
			JSON:        true,
		},
		ruleScore: &rule,
	}, nil
}

// Invoke implements Agent. Takes the fast path when the rule-based
// pre-score is confident enough; the synthetic raw output flows through
// the normal validate phase.
func (a *CompatibilityScorer) Invoke(ctx context.Context, req Request) (Raw, error) {
	if req.ruleScore != nil && req.ruleScore.overall >= a.ruleConfidence {
		synthetic, err := json.Marshal(map[string]float64{
			"overall":    req.ruleScore.overall,
			"keywords":   req.ruleScore.breakdown.Keywords,
			"skills":     req.ruleScore.breakdown.Skills,
			"experience": req.ruleScore.breakdown.Experience,
			"formatting": req.ruleScore.breakdown.Formatting,
		})
		if err != nil {
			return Raw{}, &AgentExecutionError{Stage: a.Name(), Message: "failed to encode rule-based score", Cause: err}
		}
		return Raw{Text: string(synthetic), Tokens: 0}, nil
	}

	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return Raw{}, err
	}
	return Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements Agent. Every score is clamped into [0.0, 1.0]; a
// missing overall is recomputed from the weighted breakdown.
func (a *CompatibilityScorer) Validate(raw Raw) (Update, error) {
	if err := ischemas.ValidateString(schemas.MustGet(schemas.Score), raw.Text); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "score output rejected", Cause: err}
	}

	var parsed struct {
		Overall    *float64 `json:"overall"`
		Keywords   float64  `json:"keywords"`
		Skills     float64  `json:"skills"`
		Experience float64  `json:"experience"`
		Formatting float64  `json:"formatting"`
	}
	if err := json.Unmarshal([]byte(raw.Text), &parsed); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "invalid JSON from model", Cause: err}
	}

	breakdown := types.ScoreBreakdown{
		Keywords:   parsed.Keywords,
		Skills:     parsed.Skills,
		Experience: parsed.Experience,
		Formatting: parsed.Formatting,
	}.Clamped()

	overall := breakdown.WeightedOverall()
	if parsed.Overall != nil {
		overall = types.Clamp(*parsed.Overall)
	}

	return func(state *types.PipelineState) {
		state.Score = overall
		state.Breakdown = breakdown
		state.Scored = true
	}, nil
}

// Fallback implements Agent: every score defaults to 0.5
func (a *CompatibilityScorer) Fallback(Raw) Update {
	return func(state *types.PipelineState) {
		state.Score = 0.5
		state.Breakdown = types.ScoreBreakdown{Keywords: 0.5, Skills: 0.5, Experience: 0.5, Formatting: 0.5}
		state.Scored = true
	}
}
