package orchestration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobfit-core/internal/config"
	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/retrieval"
	"github.com/jonathan/jobfit-core/internal/types"
)

const testJD = "We need a Go engineer with Kubernetes experience to build and operate backend services at scale."

const extractorJSON = `{
	"hard_skills": ["go", "kubernetes"],
	"soft_skills": ["communication"],
	"responsibilities": ["build backend services"],
	"qualifications": ["5 years experience"],
	"keyword_weights": {"go": 0.9, "kubernetes": 0.7}
}`

const rewriteJSON = `{"bullets": ["Built Go services at scale", "Operated Kubernetes clusters"]}`

const scoreHighJSON = `{"overall": 0.85, "keywords": 0.9, "skills": 0.8, "experience": 0.85, "formatting": 0.8}`

const gapsJSON = `{"missing_skills": [], "recommendations": [], "transferable_skills": []}`

type queueGen struct {
	responses []string
	calls     int
}

func (g *queueGen) Invoke(_ context.Context, _ llm.Request) (*llm.Response, error) {
	g.calls++
	if g.calls > len(g.responses) {
		return nil, fmt.Errorf("unscripted call %d", g.calls)
	}
	return &llm.Response{Text: g.responses[g.calls-1], Tokens: 150}, nil
}

// trackingIndex wraps the in-memory index and records run-scoped
// seeding and cleanup.
type trackingIndex struct {
	*retrieval.MemoryIndex
	upserts []string
	removes []string
}

func newTrackingIndex() *trackingIndex {
	return &trackingIndex{MemoryIndex: retrieval.NewMemoryIndex()}
}

func (i *trackingIndex) Upsert(tenantID, scopeID string, chunks []types.ResumeChunk) {
	i.upserts = append(i.upserts, scopeID)
	i.MemoryIndex.Upsert(tenantID, scopeID, chunks)
}

func (i *trackingIndex) Remove(tenantID, scopeID string) {
	i.removes = append(i.removes, scopeID)
	i.MemoryIndex.Remove(tenantID, scopeID)
}

type stubQuota struct {
	decision QuotaDecision
	err      error
	calls    int
}

func (q *stubQuota) CheckQuota(context.Context, string, string) (QuotaDecision, error) {
	q.calls++
	return q.decision, q.err
}

type stubUsage struct {
	reports []*types.UsageReport
	err     error
}

func (u *stubUsage) RecordUsage(_ context.Context, _, _ string, report *types.UsageReport) error {
	u.reports = append(u.reports, report)
	return u.err
}

type stubResults struct {
	saved []*types.Result
	err   error
}

func (r *stubResults) SaveResult(_ context.Context, _ string, result *types.Result) error {
	r.saved = append(r.saved, result)
	return r.err
}

func testChunks() []types.ResumeChunk {
	return []types.ResumeChunk{
		{Section: types.SectionExperience, Text: "Built Go microservices for payments", Position: 0},
		{Section: types.SectionSkills, Text: "Go, Kubernetes, PostgreSQL", Position: 1},
	}
}

func testOptions() config.Options {
	opts := config.DefaultOptions()
	// force every scoring pass through the scripted model
	opts.RuleConfidence = 2.0
	return opts
}

func TestRunOptimization_HappyPath(t *testing.T) {
	gen := &queueGen{responses: []string{extractorJSON, rewriteJSON, scoreHighJSON, gapsJSON}}
	index := newTrackingIndex()
	quota := &stubQuota{decision: QuotaDecision{Allowed: true}}
	usage := &stubUsage{}
	results := &stubResults{}

	svc := NewService(gen, index, testOptions(), quota, usage, results, nil)
	result, report, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, report)

	assert.Equal(t, 1, quota.calls)
	assert.InDelta(t, 0.85, result.Score, 1e-9)
	assert.Len(t, result.RewrittenBullets, 2)
	assert.False(t, result.Degraded())
	assert.Equal(t, result.RunID, report.RunID)
	assert.Equal(t, 600, report.TotalTokens)

	require.Len(t, results.saved, 1)
	assert.Same(t, result, results.saved[0])
	require.Len(t, usage.reports, 1)
	assert.Same(t, report, usage.reports[0])
}

func TestRunOptimization_QuotaDenied(t *testing.T) {
	gen := &queueGen{}
	index := newTrackingIndex()
	quota := &stubQuota{decision: QuotaDecision{Allowed: false, Reason: "monthly limit reached"}}

	svc := NewService(gen, index, testOptions(), quota, nil, nil, nil)
	result, report, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())

	require.Error(t, err)
	var qErr *QuotaExceededError
	require.ErrorAs(t, err, &qErr)
	assert.Equal(t, "tenant-a", qErr.TenantID)
	assert.Contains(t, qErr.Error(), "monthly limit reached")

	// denial happens before any state or model work
	assert.Nil(t, result)
	assert.Nil(t, report)
	assert.Zero(t, gen.calls)
	assert.Empty(t, index.upserts)
}

func TestRunOptimization_QuotaCheckFailure(t *testing.T) {
	gen := &queueGen{}
	quota := &stubQuota{err: errors.New("billing service down")}

	svc := NewService(gen, newTrackingIndex(), testOptions(), quota, nil, nil, nil)
	_, _, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())

	require.ErrorContains(t, err, "quota check failed")
	assert.Zero(t, gen.calls)
}

func TestRunOptimization_NilCollaborators(t *testing.T) {
	gen := &queueGen{responses: []string{extractorJSON, rewriteJSON, scoreHighJSON, gapsJSON}}

	svc := NewService(gen, newTrackingIndex(), testOptions(), nil, nil, nil, nil)
	result, report, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotNil(t, report)
}

func TestRunOptimization_IndexScopedToRun(t *testing.T) {
	gen := &queueGen{responses: []string{extractorJSON, rewriteJSON, scoreHighJSON, gapsJSON}}
	index := newTrackingIndex()

	svc := NewService(gen, index, testOptions(), nil, nil, nil, nil)
	result, _, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())
	require.NoError(t, err)

	scope := result.RunID.String()
	assert.Equal(t, []string{scope}, index.upserts)
	assert.Equal(t, []string{scope}, index.removes)
	assert.Empty(t, index.Search("tenant-a", []string{"go"}, 8, scope))
}

func TestRunOptimization_PersistenceFailuresDoNotFailRun(t *testing.T) {
	gen := &queueGen{responses: []string{extractorJSON, rewriteJSON, scoreHighJSON, gapsJSON}}
	usage := &stubUsage{err: errors.New("usage table locked")}
	results := &stubResults{err: errors.New("results table locked")}

	svc := NewService(gen, newTrackingIndex(), testOptions(), nil, usage, results, nil)
	result, _, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestRunOptimization_AbortedRunReturnsError(t *testing.T) {
	// extractor output is invalid on both attempts, so the fatal stage
	// aborts and no result or usage is recorded
	gen := &queueGen{responses: []string{"garbage", "garbage"}}
	usage := &stubUsage{}
	results := &stubResults{}

	svc := NewService(gen, newTrackingIndex(), testOptions(), nil, usage, results, nil)
	result, report, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", testJD, testChunks())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Nil(t, report)
	assert.Empty(t, usage.reports)
	assert.Empty(t, results.saved)
}

func TestRunOptimization_ShortJDRejected(t *testing.T) {
	gen := &queueGen{}

	svc := NewService(gen, newTrackingIndex(), testOptions(), nil, nil, nil, nil)
	_, _, err := svc.RunOptimization(context.Background(), "tenant-a", "user-1", "too short", testChunks())

	require.Error(t, err)
	assert.Zero(t, gen.calls)
}
