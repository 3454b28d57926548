// Package interview implements the interview-preparation pipeline: a
// question generator and a cover-letter generator sharing the stage
// agent contract with the optimization pipeline, run concurrently by
// the Service since neither depends on the other's output.
package interview

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/jobfit-core/internal/agents"
	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/prompts"
	ischemas "github.com/jonathan/jobfit-core/internal/schemas"
	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/jonathan/jobfit-core/schemas"
)

// Stage names for token accounting and error records
const (
	StageInterviewQuestions = "interview_questions"
	StageCoverLetter        = "cover_letter"
)

const questionTemperature = 0.6

// QuestionGenerator produces likely interview questions for the target
// role, each with a STAR-format answer suggestion drawn from the
// candidate's bullets.
type QuestionGenerator struct {
	gen agents.Generator
}

// NewQuestionGenerator creates the question generation stage
func NewQuestionGenerator(gen agents.Generator) *QuestionGenerator {
	return &QuestionGenerator{gen: gen}
}

// Name implements the stage contract
func (a *QuestionGenerator) Name() string { return StageInterviewQuestions }

// Fatal implements the stage contract
func (a *QuestionGenerator) Fatal() bool { return false }

// BuildRequest implements the stage contract
func (a *QuestionGenerator) BuildRequest(state *types.PipelineState) (agents.Request, error) {
	if strings.TrimSpace(state.JDText) == "" {
		return agents.Request{}, &agents.ValidationError{Message: "job description text is empty"}
	}

	user := prompts.Format(prompts.MustGet("interview.json", "questions-user"), map[string]string{
		"JDText":  state.JDText,
		"Bullets": bulletList(state.RewrittenBullets),
	})

	return agents.Request{
		Prompt: llm.Request{
			Segments: []llm.Segment{
				{Role: llm.RoleSystem, Content: prompts.MustGet("interview.json", "questions-system")},
				{Role: llm.RoleUser, Content: user},
			},
			Tier:        llm.TierStandard,
			Temperature: questionTemperature,
			JSON:        true,
		},
	}, nil
}

// Invoke implements the stage contract
func (a *QuestionGenerator) Invoke(ctx context.Context, req agents.Request) (agents.Raw, error) {
	resp, err := a.gen.Invoke(ctx, req.Prompt)
	if err != nil {
		return agents.Raw{}, err
	}
	return agents.Raw{Text: resp.Text, Tokens: resp.Tokens, FromModel: true}, nil
}

// Validate implements the stage contract
func (a *QuestionGenerator) Validate(raw agents.Raw) (agents.Update, error) {
	if err := ischemas.ValidateString(schemas.MustGet(schemas.InterviewQuestions), raw.Text); err != nil {
		return nil, &agents.SchemaValidationError{Stage: a.Name(), Message: "question output rejected", Cause: err}
	}

	var parsed struct {
		Questions []types.InterviewQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw.Text), &parsed); err != nil {
		return nil, &agents.SchemaValidationError{Stage: a.Name(), Message: "invalid JSON from model", Cause: err}
	}

	return func(state *types.PipelineState) {
		state.Questions = parsed.Questions
	}, nil
}

// Fallback implements the stage contract: an empty question list
func (a *QuestionGenerator) Fallback(agents.Raw) agents.Update {
	return func(state *types.PipelineState) {
		state.Questions = []types.InterviewQuestion{}
	}
}

func bulletList(bullets []string) string {
	if len(bullets) == 0 {
		return "(none provided)"
	}
	return "- " + strings.Join(bullets, "\n- ")
}
