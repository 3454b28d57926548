package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	ischemas "github.com/jonathan/jobfit-core/internal/schemas"
	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/jonathan/jobfit-core/schemas"
)

const rewriteTemperature = 0.7

// ContentRewriter rewrites the retrieved resume content as
// achievement-oriented bullets emphasizing the extracted requirements.
// On a retry after a below-threshold score, the request carries the
// score breakdown so the rewrite can target the weakest category.
type ContentRewriter struct {
	gen Generator
}

// NewContentRewriter creates the rewriter stage
func NewContentRewriter(gen Generator) *ContentRewriter {
	return &ContentRewriter{gen: gen}
}

// Name implements Agent
func (a *ContentRewriter) Name() string { return StageContentRewriting }

// Fatal implements Agent
func (a *ContentRewriter) Fatal() bool { return false }

// BuildRequest implements Agent. Uses the retrieved chunks when the
// retrieval stage produced any, the raw input chunks otherwise.
func (a *ContentRewriter) BuildRequest(state *types.PipelineState) (Request, error) {
	if state.Requirements == nil {
		return Request{}, &AgentExecutionError{Stage: a.Name(), Message: "requirement profile missing from state"}
	}

	req := state.Requirements
	user := prompts.Format(prompts.MustGet("optimization.json", "rewrite-user"), map[string]string{
		"HardSkills":       strings.Join(req.HardSkills, ", "),
		"SoftSkills":       strings.Join(req.SoftSkills, ", "),
		"Responsibilities": strings.Join(req.Responsibilities, "; "),
		"Keywords":         strings.Join(req.Keywords(), ", "),
		"Chunks":           a.sourceContent(state),
	})

	if state.Scored {
		user += prompts.Format(prompts.MustGet("optimization.json", "rewrite-feedback"), map[string]string{
			"Keywords":   fmt.Sprintf("%.2f", state.Breakdown.Keywords),
			"Skills":     fmt.Sprintf("%.2f", state.Breakdown.Skills),
			"Experience": fmt.Sprintf("%.2f", state.Breakdown.Experience),
			"Formatting": fmt.Sprintf("%.2f", state.Breakdown.Formatting),
			"Weakest":    state.Breakdown.Weakest(),
		})
	}

	return Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: prompts.MustGet("optimization.json", "rewrite-system")},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierAdvanced,
			Temperature: rewriteTemperature,
			JSON:        true,
		},
	}, nil
}

// sourceContent renders the content the rewrite works from
func (a *ContentRewriter) sourceContent(state *types.PipelineState) string {
	var sb strings.Builder
	if len(state.RetrievedChunks) > 0 {
		for _, chunk := range state.RetrievedChunks {
			fmt.Fprintf(&sb, "[%s] %s\n", chunk.Section, chunk.Text)
		}
		return sb.String()
	}
	for _, chunk := range state.Chunks {
		fmt.Fprintf(&sb, "[%s] %s\n", chunk.Section, chunk.Text)
	}
	return sb.String()
}

// Invoke implements Agent
func (a *ContentRewriter) Invoke(ctx context.Context, req Request) (Raw, error) {
	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return Raw{}, err
	}
	return Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements Agent
func (a *ContentRewriter) Validate(raw Raw) (Update, error) {
	if err := ischemas.ValidateString(schemas.MustGet(schemas.Rewrite), raw.Text); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "rewritten bullets rejected", Cause: err}
	}

	var parsed struct {
		Bullets []string `json:"bullets"`
	}
	if err := json.Unmarshal([]byte(raw.Text), &parsed); err != nil {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "invalid JSON from model", Cause: err}
	}

	bullets := make([]string, 0, len(parsed.Bullets))
	for _, bullet := range parsed.Bullets {
		if trimmed := strings.TrimSpace(bullet); trimmed != "" {
			bullets = append(bullets, trimmed)
		}
	}
	if len(bullets) == 0 {
		return nil, &SchemaValidationError{Stage: a.Name(), Message: "no usable bullets in output"}
	}

	return func(state *types.PipelineState) {
		state.RewrittenBullets = bullets
	}, nil
}

// Fallback implements Agent: wrap the raw model text as a single bullet
// so the run can still complete in degraded form.
func (a *ContentRewriter) Fallback(raw Raw) Update {
	text := strings.TrimSpace(raw.Text)
	return func(state *types.PipelineState) {
		if text == "" {
			// Nothing usable came back at all; carry the input forward
			bullets := make([]string, 0, len(state.Chunks))
			for _, chunk := range state.Chunks {
				bullets = append(bullets, chunk.Text)
			}
			state.RewrittenBullets = bullets
			return
		}
		state.RewrittenBullets = []string{text}
	}
}
