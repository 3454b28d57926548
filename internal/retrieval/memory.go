package retrieval

import (
	"sort"
	"sync"

	"github.com/jonathan/jobfit-core/internal/types"
)

// defaultMinRelevance drops chunks that barely overlap the query before
// the top-k cap is applied.
const defaultMinRelevance = 0.3

// indexedChunk is one chunk prepared for term matching
type indexedChunk struct {
	chunk types.ResumeChunk
	terms map[string]bool
}

// MemoryIndex is an in-memory Index keyed by tenant and scope. Tenants
// are isolated by map key; concurrent runs share the index behind an
// RWMutex.
type MemoryIndex struct {
	mu           sync.RWMutex
	tenants      map[string]map[string][]indexedChunk
	minRelevance float64
}

// NewMemoryIndex creates an empty index with the default relevance floor
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		tenants:      make(map[string]map[string][]indexedChunk),
		minRelevance: defaultMinRelevance,
	}
}

// WithMinRelevance overrides the relevance floor. Zero disables it.
func (m *MemoryIndex) WithMinRelevance(floor float64) *MemoryIndex {
	m.minRelevance = floor
	return m
}

// Upsert replaces the indexed chunks for one tenant/scope pair
func (m *MemoryIndex) Upsert(tenantID, scopeID string, chunks []types.ResumeChunk) {
	indexed := make([]indexedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		indexed = append(indexed, indexedChunk{
			chunk: chunk,
			terms: termSet(chunk.Text),
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	scopes, ok := m.tenants[tenantID]
	if !ok {
		scopes = make(map[string][]indexedChunk)
		m.tenants[tenantID] = scopes
	}
	scopes[scopeID] = indexed
}

// Remove drops one tenant/scope pair from the index
func (m *MemoryIndex) Remove(tenantID, scopeID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if scopes, ok := m.tenants[tenantID]; ok {
		delete(scopes, scopeID)
	}
}

// Search implements Index. Relevance is the share of query terms found
// in a chunk, so scores are always in [0.0, 1.0]. Ordering is score
// descending with chunk position as the tiebreak, which keeps results
// deterministic for identical index content.
func (m *MemoryIndex) Search(tenantID string, queryTerms []string, topK int, scopeID string) []types.RankedChunk {
	if topK <= 0 || len(queryTerms) == 0 {
		return nil
	}

	query := make(map[string]bool)
	for _, term := range queryTerms {
		for _, tok := range tokenize(term) {
			query[tok] = true
		}
	}
	if len(query) == 0 {
		return nil
	}

	m.mu.RLock()
	candidates := m.collect(tenantID, scopeID)
	m.mu.RUnlock()

	type scored struct {
		chunk types.ResumeChunk
		score float64
	}
	matches := make([]scored, 0, len(candidates))
	for _, cand := range candidates {
		found := 0
		for term := range query {
			if cand.terms[term] {
				found++
			}
		}
		score := float64(found) / float64(len(query))
		if score < m.minRelevance {
			continue
		}
		matches = append(matches, scored{chunk: cand.chunk, score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].chunk.Position < matches[j].chunk.Position
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}

	ranked := make([]types.RankedChunk, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, types.RankedChunk{
			Section:   match.chunk.Section,
			Text:      match.chunk.Text,
			Relevance: types.Clamp(match.score),
		})
	}
	return ranked
}

// collect gathers candidate chunks for a tenant, optionally scoped.
// Caller holds the read lock.
func (m *MemoryIndex) collect(tenantID, scopeID string) []indexedChunk {
	scopes, ok := m.tenants[tenantID]
	if !ok {
		return nil
	}
	if scopeID != "" {
		return scopes[scopeID]
	}

	scopeIDs := make([]string, 0, len(scopes))
	for id := range scopes {
		scopeIDs = append(scopeIDs, id)
	}
	sort.Strings(scopeIDs)

	var all []indexedChunk
	for _, id := range scopeIDs {
		all = append(all, scopes[id]...)
	}
	return all
}
