package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobfit-core/internal/types"
)

func sampleResult() *types.Result {
	state := types.NewPipelineState("tenant-a", "user-1", "jd", nil, 0.75, 2)
	return &types.Result{
		RunID:            state.RunID,
		RewrittenBullets: []string{"Built Go services", "Operated Kubernetes"},
		Score:            0.83,
		Breakdown:        types.ScoreBreakdown{Keywords: 0.9, Skills: 0.8, Experience: 0.85, Formatting: 0.7},
		Gaps: &types.GapReport{
			MissingSkills:      []types.MissingSkill{{Name: "terraform", Priority: types.PriorityHigh}},
			Recommendations:    []string{"Add an infrastructure project"},
			TransferableSkills: []string{"kubernetes operations"},
		},
		RewriteAttempts: 1,
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Overall score:  0.83")
	assert.Contains(t, out, "keywords:    0.90")
	assert.Contains(t, out, "Rewrite attempts: 1")
	assert.Contains(t, out, "Rewritten Bullets (2)")
	assert.Contains(t, out, "terraform (high)")
	assert.Contains(t, out, "Add an infrastructure project")
	assert.NotContains(t, out, "Degradation Notes")
}

func TestPrintResult_Degraded(t *testing.T) {
	result := sampleResult()
	result.Errors = []types.StageError{
		{Stage: "gap_analysis", Kind: types.ErrKindBackend, Message: "backend unavailable", Continued: true},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(result)

	assert.Contains(t, buf.String(), "Degradation Notes")
	assert.Contains(t, buf.String(), "[gap_analysis] backend: backend unavailable")
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResult_NoGaps(t *testing.T) {
	result := sampleResult()
	result.Gaps = &types.GapReport{}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(result)
	assert.Contains(t, buf.String(), "No gaps identified")
}

func TestPrintInterviewKit(t *testing.T) {
	state := types.NewPipelineState("tenant-a", "user-1", "jd", nil, 0, 0)
	kit := &types.InterviewKit{
		RunID: state.RunID,
		Questions: []types.InterviewQuestion{
			{Category: types.CategoryBehavioral, Question: "Tell me about an outage.", SuggestedAnswer: "Situation: ..."},
		},
		CoverLetter: "Dear hiring manager,",
		Tone:        types.ToneProfessional,
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintInterviewKit(kit)
	out := buf.String()

	assert.Contains(t, out, "Interview Questions (1)")
	assert.Contains(t, out, "[behavioral] Tell me about an outage.")
	assert.Contains(t, out, "Cover Letter (professional)")
}

func TestPrintUsage(t *testing.T) {
	state := types.NewPipelineState("tenant-a", "user-1", "jd", nil, 0, 0)
	report := &types.UsageReport{
		RunID:       state.RunID,
		TotalTokens: 450,
		StageTokens: map[string]int{"requirement_extraction": 150, "content_rewriting": 300},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintUsage(report)
	out := buf.String()

	assert.Contains(t, out, "Total tokens: 450")
	assert.Contains(t, out, "content_rewriting")
	assert.Contains(t, out, "requirement_extraction")
}
