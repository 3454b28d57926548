package agents

import (
	"context"
	"testing"

	"github.com/jonathan/jobfit-core/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRewriter_ValidOutput(t *testing.T) {
	gen := respondWith(`{"bullets": ["Shipped Go services", "  ", "Scaled Kubernetes clusters"]}`)
	rewriter := NewContentRewriter(gen)
	state := stateWithRequirements()

	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)
	raw, err := rewriter.Invoke(context.Background(), req)
	require.NoError(t, err)
	update, err := rewriter.Validate(raw)
	require.NoError(t, err)

	update(state)

	// Blank bullets are dropped
	assert.Equal(t, []string{"Shipped Go services", "Scaled Kubernetes clusters"}, state.RewrittenBullets)
}

func TestContentRewriter_UsesRetrievedChunksWhenPresent(t *testing.T) {
	gen := respondWith(`{"bullets": ["x"]}`)
	rewriter := NewContentRewriter(gen)
	state := stateWithRequirements()
	state.RetrievedChunks = []types.RankedChunk{
		{Section: types.SectionExperience, Text: "retrieved-only-content", Relevance: 0.9},
	}

	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)

	userContent := req.Prompt.Segments[1].Content
	assert.Contains(t, userContent, "retrieved-only-content")
	assert.NotContains(t, userContent, "10k rps")
}

func TestContentRewriter_FallsBackToRawChunks(t *testing.T) {
	rewriter := NewContentRewriter(respondWith(`{"bullets": ["x"]}`))
	state := stateWithRequirements()
	state.RetrievedChunks = nil

	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)

	assert.Contains(t, req.Prompt.Segments[1].Content, "10k rps")
}

func TestContentRewriter_RetryCarriesScoreFeedback(t *testing.T) {
	rewriter := NewContentRewriter(respondWith(`{"bullets": ["x"]}`))
	state := stateWithRequirements()
	state.Scored = true
	state.Breakdown = types.ScoreBreakdown{Keywords: 0.9, Skills: 0.2, Experience: 0.8, Formatting: 0.7}

	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)

	userContent := req.Prompt.Segments[1].Content
	assert.Contains(t, userContent, "weakest category: skills")
}

func TestContentRewriter_FirstAttemptHasNoFeedback(t *testing.T) {
	rewriter := NewContentRewriter(respondWith(`{"bullets": ["x"]}`))
	state := stateWithRequirements()

	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)

	assert.NotContains(t, req.Prompt.Segments[1].Content, "weakest category")
}

func TestContentRewriter_EmptyBulletsRejected(t *testing.T) {
	rewriter := NewContentRewriter(respondWith(`{"bullets": []}`))
	state := stateWithRequirements()

	req, _ := rewriter.BuildRequest(state)
	raw, err := rewriter.Invoke(context.Background(), req)
	require.NoError(t, err)

	_, err = rewriter.Validate(raw)

	var sve *SchemaValidationError
	assert.ErrorAs(t, err, &sve)
}

func TestContentRewriter_FallbackWrapsRawText(t *testing.T) {
	rewriter := NewContentRewriter(respondWith("x"))
	state := stateWithRequirements()

	rewriter.Fallback(Raw{Text: "Some unstructured model prose about the resume."})(state)

	assert.Equal(t, []string{"Some unstructured model prose about the resume."}, state.RewrittenBullets)
}

func TestContentRewriter_FallbackWithoutRawCarriesInputForward(t *testing.T) {
	rewriter := NewContentRewriter(respondWith("x"))
	state := stateWithRequirements()

	rewriter.Fallback(Raw{})(state)

	assert.Equal(t, []string{
		"Built Go microservices handling 10k rps",
		"Go, Kubernetes, PostgreSQL, Kafka",
	}, state.RewrittenBullets)
}

func TestWithStrictRetry_AppendsToUserSegment(t *testing.T) {
	rewriter := NewContentRewriter(respondWith("x"))
	state := stateWithRequirements()
	req, err := rewriter.BuildRequest(state)
	require.NoError(t, err)

	strict := WithStrictRetry(req, "bullets: is required")

	assert.Contains(t, strict.Prompt.Segments[1].Content, "bullets: is required")
	assert.Contains(t, strict.Prompt.Segments[1].Content, "ONLY valid JSON")
	// Original request is not mutated
	assert.NotContains(t, req.Prompt.Segments[1].Content, "ONLY valid JSON")
}
