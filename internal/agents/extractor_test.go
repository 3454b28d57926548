package agents

import (
	"context"
	"testing"

	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRequirementsJSON = `{
	"hard_skills": ["Go", "Kubernetes"],
	"soft_skills": ["communication"],
	"responsibilities": ["build services"],
	"qualifications": ["BS or equivalent"],
	"keyword_weights": {"go": 1.0, "kubernetes": 0.8, "docker": 1.7, "bad": -0.3}
}`

func TestRequirementExtractor_ShortJDRejectedBeforeModelCall(t *testing.T) {
	gen := respondWith(validRequirementsJSON)
	extractor := NewRequirementExtractor(gen)

	state := testState()
	state.JDText = "hire me pls"

	_, err := extractor.BuildRequest(state)

	require.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Empty(t, gen.requests, "no model call should be spent")
}

func TestRequirementExtractor_BuildRequestIdempotent(t *testing.T) {
	extractor := NewRequirementExtractor(respondWith(validRequirementsJSON))
	state := testState()

	first, err := extractor.BuildRequest(state)
	require.NoError(t, err)
	second, err := extractor.BuildRequest(state)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, float32(0), first.Prompt.Temperature)
	assert.True(t, first.Prompt.JSON)
}

func TestRequirementExtractor_ValidOutput(t *testing.T) {
	extractor := NewRequirementExtractor(respondWith(validRequirementsJSON))
	state := testState()

	req, err := extractor.BuildRequest(state)
	require.NoError(t, err)
	raw, err := extractor.Invoke(context.Background(), req)
	require.NoError(t, err)
	update, err := extractor.Validate(raw)
	require.NoError(t, err)

	update(state)

	require.NotNil(t, state.Requirements)
	assert.Equal(t, []string{"Go", "Kubernetes"}, state.Requirements.HardSkills)
	// Out-of-range weights are clamped
	assert.Equal(t, 1.0, state.Requirements.KeywordWeights["docker"])
	assert.Equal(t, 0.0, state.Requirements.KeywordWeights["bad"])
}

func TestRequirementExtractor_MissingKeyRejected(t *testing.T) {
	extractor := NewRequirementExtractor(respondWith(`{"hard_skills": ["Go"]}`))
	state := testState()

	req, err := extractor.BuildRequest(state)
	require.NoError(t, err)
	raw, err := extractor.Invoke(context.Background(), req)
	require.NoError(t, err)

	_, err = extractor.Validate(raw)

	var sve *SchemaValidationError
	require.ErrorAs(t, err, &sve)
	assert.Equal(t, StageRequirementExtraction, sve.Stage)
}

func TestRequirementExtractor_NonJSONRejected(t *testing.T) {
	extractor := NewRequirementExtractor(respondWith("I could not parse the job description, sorry!"))
	state := testState()

	req, err := extractor.BuildRequest(state)
	require.NoError(t, err)
	raw, err := extractor.Invoke(context.Background(), req)
	require.NoError(t, err)

	_, err = extractor.Validate(raw)

	var sve *SchemaValidationError
	assert.ErrorAs(t, err, &sve)
}

func TestRequirementExtractor_IsFatal(t *testing.T) {
	extractor := NewRequirementExtractor(respondWith(validRequirementsJSON))
	assert.True(t, extractor.Fatal())
}

func TestKeywordsOrdering(t *testing.T) {
	profile := &types.RequirementProfile{
		KeywordWeights: map[string]float64{"b": 0.5, "a": 0.5, "c": 0.9},
	}
	assert.Equal(t, []string{"c", "a", "b"}, profile.Keywords())
}
