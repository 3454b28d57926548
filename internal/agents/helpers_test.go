package agents

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/types"
)

// stubGenerator returns scripted responses in order and records requests
type stubGenerator struct {
	responses []*llm.Response
	errs      []error
	requests  []llm.Request
}

func (s *stubGenerator) Invoke(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return s.responses[idx], err
}

func respondWith(texts ...string) *stubGenerator {
	responses := make([]*llm.Response, len(texts))
	for i, text := range texts {
		responses[i] = &llm.Response{Text: text, Tokens: 100}
	}
	return &stubGenerator{responses: responses}
}

func testState() *types.PipelineState {
	state := types.NewPipelineState(
		"tenant-1", "user-1",
		"We are hiring a backend engineer with strong Go, Kubernetes, and PostgreSQL experience to build distributed systems.",
		[]types.ResumeChunk{
			{Section: types.SectionExperience, Text: "Built Go microservices handling 10k rps", Position: 0},
			{Section: types.SectionSkills, Text: "Go, Kubernetes, PostgreSQL, Kafka", Position: 1},
		},
		0.75, 2,
	)
	state.RunID = uuid.MustParse("11111111-2222-3333-4444-555555555555")
	return state
}

func stateWithRequirements() *types.PipelineState {
	state := testState()
	state.Requirements = &types.RequirementProfile{
		HardSkills:       []string{"Go", "Kubernetes"},
		SoftSkills:       []string{"communication"},
		Responsibilities: []string{"build distributed systems"},
		Qualifications:   []string{"5 years backend"},
		KeywordWeights:   map[string]float64{"go": 1.0, "kubernetes": 0.8},
	}
	return state
}
