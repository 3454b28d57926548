package interview

import (
	"context"
	"strings"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	"github.com/jonathan/jobfit-core/internal/types"
)

// MinCoverLetterChars is the shortest output accepted as a usable letter
const MinCoverLetterChars = 200

const coverLetterTemperature = 0.7

// CoverLetterGenerator writes a tailored cover letter in the requested
// tone. Output is plain text, not JSON.
type CoverLetterGenerator struct {
	gen agents.Generator
}

// NewCoverLetterGenerator creates the cover letter stage
func NewCoverLetterGenerator(gen agents.Generator) *CoverLetterGenerator {
	return &CoverLetterGenerator{gen: gen}
}

// Name implements the stage contract
func (a *CoverLetterGenerator) Name() string { return StageCoverLetter }

// Fatal implements the stage contract
func (a *CoverLetterGenerator) Fatal() bool { return false }

// BuildRequest implements the stage contract. The tone comes from
// state, already normalized by the service.
func (a *CoverLetterGenerator) BuildRequest(state *types.PipelineState) (agents.Request, error) {
	if strings.TrimSpace(state.JDText) == "" {
		return agents.Request{}, &agents.ValidationError{Message: "job description text is empty"}
	}

	system := prompts.Format(prompts.MustGet("interview.json", "cover-letter-system"), map[string]string{
		"Tone": types.NormalizeTone(state.Tone),
	})
	user := prompts.Format(prompts.MustGet("interview.json", "cover-letter-user"), map[string]string{
		"JDText":  state.JDText,
		"Bullets": bulletList(state.RewrittenBullets),
	})

	return agents.Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: system},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierAdvanced,
			Temperature: coverLetterTemperature,
		},
	}, nil
}

// Invoke implements the stage contract
func (a *CoverLetterGenerator) Invoke(ctx context.Context, req agents.Request) (agents.Raw, error) {
	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return agents.Raw{}, err
	}
	return agents.Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements the stage contract: plain-text output, accepted
// when long enough to plausibly be a letter.
func (a *CoverLetterGenerator) Validate(raw agents.Raw) (agents.Update, error) {
	text := strings.TrimSpace(raw.Text)
	if len(text) < MinCoverLetterChars {
		return nil, &agents.SchemaValidationError{Stage: a.Name(), Message: "cover letter too short to be usable"}
	}
	return func(state *types.PipelineState) {
		state.CoverLetter = text
	}, nil
}

// Fallback implements the stage contract: keep whatever text came back
func (a *CoverLetterGenerator) Fallback(raw agents.Raw) agents.Update {
	text := strings.TrimSpace(raw.Text)
	return func(state *types.PipelineState) {
		state.CoverLetter = text
	}
}
