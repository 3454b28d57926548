package agents

import (
	"context"

	"github.com/jonathan/jobfit-core/internal/retrieval"
	"github.com/jonathan/jobfit-core/internal/types"
)

// ChunkRetriever ranks the tenant's indexed resume chunks against the
// extracted requirements. Pure computation, no generation call. An empty
// result is a safe-degrade condition, not an error: the rewriter falls
// back to the raw chunks already in state.
type ChunkRetriever struct {
	index retrieval.Index
	topK  int
}

// NewChunkRetriever creates the retrieval stage
func NewChunkRetriever(index retrieval.Index, topK int) *ChunkRetriever {
	return &ChunkRetriever{index: index, topK: topK}
}

// Name implements Agent
func (a *ChunkRetriever) Name() string { return StageChunkRetrieval }

// Fatal implements Agent
func (a *ChunkRetriever) Fatal() bool { return false }

// BuildRequest implements Agent. Query terms come from the requirement
// profile, weighted keywords first.
func (a *ChunkRetriever) BuildRequest(state *types.PipelineState) (Request, error) {
	if state.Requirements == nil {
		return Request{}, &AgentExecutionError{Stage: a.Name(), Message: "requirement profile missing from state"}
	}
	return Request{
		Tenant: state.TenantID,
		Scope:  state.RunID.String(),
		Query:  state.Requirements.AllTerms(),
		TopK:   a.topK,
	}, nil
}

// Invoke implements Agent
func (a *ChunkRetriever) Invoke(_ context.Context, req Request) (Raw, error) {
	chunks := a.index.Search(req.Tenant, req.Query, req.TopK, req.Scope)
	return Raw{Chunks: chunks}, nil
}

// Validate implements Agent. Relevance scores are clamped; an empty
// chunk list is accepted as-is.
func (a *ChunkRetriever) Validate(raw Raw) (Update, error) {
	chunks := make([]types.RankedChunk, len(raw.Chunks))
	for i, chunk := range raw.Chunks {
		chunk.Relevance = types.Clamp(chunk.Relevance)
		chunks[i] = chunk
	}
	return func(state *types.PipelineState) {
		state.RetrievedChunks = chunks
	}, nil
}

// Fallback implements Agent: an empty chunk list
func (a *ChunkRetriever) Fallback(Raw) Update {
	return func(state *types.PipelineState) {
		state.RetrievedChunks = []types.RankedChunk{}
	}
}
