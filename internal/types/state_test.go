package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineState(t *testing.T) {
	chunks := []ResumeChunk{{Section: SectionExperience, Text: "Built services", Position: 0}}
	state := NewPipelineState("tenant-a", "user-1", "some jd text", chunks, 0.75, 2)

	assert.Equal(t, "tenant-a", state.TenantID)
	assert.Equal(t, "user-1", state.RequesterID)
	assert.NotEqual(t, uuid.Nil, state.RunID)
	assert.InDelta(t, 0.75, state.ScoreThreshold, 1e-9)
	assert.Equal(t, 2, state.MaxAttempts)
	assert.Zero(t, state.RewriteAttempts)
	assert.NotNil(t, state.StageTokens)
	assert.False(t, state.StartedAt.IsZero())
}

func TestAddTokens_AccumulatesAcrossRetries(t *testing.T) {
	state := NewPipelineState("t", "u", "jd", nil, 0.75, 2)

	state.AddTokens("content_rewriting", 300)
	state.AddTokens("content_rewriting", 250)
	state.AddTokens("gap_analysis", 100)
	state.AddTokens("chunk_retrieval", 0)

	assert.Equal(t, 550, state.StageTokens["content_rewriting"])
	assert.Equal(t, 650, state.TotalTokens)
	assert.NotContains(t, state.StageTokens, "chunk_retrieval")
}

func TestRecordError(t *testing.T) {
	state := NewPipelineState("t", "u", "jd", nil, 0.75, 2)

	state.RecordError("compatibility_scoring", ErrKindSchema, "score output rejected", true)

	require.Len(t, state.Errors, 1)
	assert.Equal(t, StageError{
		Stage:     "compatibility_scoring",
		Kind:      ErrKindSchema,
		Message:   "score output rejected",
		Continued: true,
	}, state.Errors[0])
}

func TestRequirementProfile_KeywordsOrdering(t *testing.T) {
	p := &RequirementProfile{KeywordWeights: map[string]float64{
		"go": 0.9, "docker": 0.5, "aws": 0.5, "kubernetes": 0.7,
	}}
	assert.Equal(t, []string{"go", "kubernetes", "aws", "docker"}, p.Keywords())
}

func TestRequirementProfile_AllTermsDeduplicates(t *testing.T) {
	p := &RequirementProfile{
		HardSkills:     []string{"go", "kubernetes"},
		SoftSkills:     []string{"communication"},
		Qualifications: []string{"go", ""},
		KeywordWeights: map[string]float64{"go": 0.9, "terraform": 0.4},
	}
	terms := p.AllTerms()

	assert.Equal(t, []string{"go", "kubernetes", "communication", "terraform"}, terms)
}

func TestNormalizeTone(t *testing.T) {
	assert.Equal(t, ToneFormal, NormalizeTone("formal"))
	assert.Equal(t, ToneCasual, NormalizeTone("casual"))
	assert.Equal(t, ToneProfessional, NormalizeTone(""))
	assert.Equal(t, ToneProfessional, NormalizeTone("sarcastic"))
}

func TestValidGapPriority(t *testing.T) {
	assert.True(t, ValidGapPriority(PriorityHigh))
	assert.True(t, ValidGapPriority(PriorityMedium))
	assert.True(t, ValidGapPriority(PriorityLow))
	assert.False(t, ValidGapPriority("urgent"))
}

func TestResultDegraded(t *testing.T) {
	r := &Result{}
	assert.False(t, r.Degraded())
	r.Errors = []StageError{{Stage: "gap_analysis", Kind: ErrKindBackend}}
	assert.True(t, r.Degraded())
}
