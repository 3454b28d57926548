package agents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	ischemas "github.com/jonathan/jobfit-core/internal/schemas"
	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/jonathan/jobfit-core/schemas"
)

// MinJDLength is the minimum job-description length accepted before any
// model call is spent.
const MinJDLength = 50

// RequirementExtractor extracts the structured requirement set from raw
// job-description text. First stage in the pipeline; every downstream
// stage depends on its output, so its validation failure is fatal.
type RequirementExtractor struct {
	gen Generator
}

// NewRequirementExtractor creates the extractor stage
func NewRequirementExtractor(gen Generator) *RequirementExtractor {
	return &RequirementExtractor{gen: gen}
}

// Name implements Agent
func (a *RequirementExtractor) Name() string { return StageRequirementExtraction }

// Fatal implements Agent; the extractor has no usable fallback
func (a *RequirementExtractor) Fatal() bool { return true }

// BuildRequest implements Agent. Rejects short job descriptions with a
// ValidationError before consuming a model call.
func (a *RequirementExtractor) BuildRequest(state *types.PipelineState) (Request, error) {
	if len(state.JDText) < MinJDLength {
		return Request{}, &ValidationError{
			Message: fmt.Sprintf("job description is too short or unintelligible (minimum %d characters)", MinJDLength),
		}
	}

	user := prompts.Format(prompts.MustGet("optimization.json", "requirements-user"), map[string]string{
		"JDText": state.JDText,
	})
	return Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: prompts.MustGet("optimization.json", "requirements-system")},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierLite,
			Temperature: 0,
			JSON:        true,
		},
	}, nil
}

// Invoke implements Agent
func (a *RequirementExtractor) Invoke(ctx context.Context, req Request) (Raw, error) {
	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return Raw{}, err
	}
	return Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements Agent. Parses, normalizes, and clamps the
// requirement profile.
func (a *RequirementExtractor) Validate(raw Raw) (Update, error) {
	if err := ischemas.ValidateString(schemas.MustGet(schemas.Requirements), raw.Text); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "requirement profile rejected", Cause: err}
	}

	var profile types.RequirementProfile
	if err := json.Unmarshal([]byte(raw.Text), &profile); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "invalid JSON from model", Cause: err}
	}

	weights := make(map[string]float64, len(profile.KeywordWeights))
	for keyword, weight := range profile.KeywordWeights {
		if keyword == "" {
			continue
		}
		weights[keyword] = types.Clamp(weight)
	}
	profile.KeywordWeights = weights

	return func(state *types.PipelineState) {
		state.Requirements = &profile
	}, nil
}

// Fallback implements Agent. Never called: the extractor is fatal.
func (a *RequirementExtractor) Fallback(Raw) Update {
	return func(*types.PipelineState) {}
}
