// Package retrieval provides per-tenant similarity search over resume
// content chunks. Search is pure computation over an in-memory index:
// it never involves a generation call and never returns an error —
// a missing tenant or scope yields an empty result so downstream stages
// can fall back to the raw chunks already in pipeline state.
package retrieval

import (
	"strings"
	"unicode"

	"github.com/jonathan/jobfit-core/internal/types"
)

// Index is the retrieval contract consumed by the chunk retriever stage.
// Implementations must be safe for concurrent use across pipeline runs.
type Index interface {
	// Search returns chunks ranked by relevance to the query terms,
	// capped at topK. scopeID narrows the search to one resume; empty
	// scopeID searches the tenant's whole index. Results are
	// deterministic given identical index content.
	Search(tenantID string, queryTerms []string, topK int, scopeID string) []types.RankedChunk
}

// stopwords excluded from term matching; generic resume/JD filler that
// would otherwise dominate overlap scores.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "the": true, "to": true,
	"with": true, "will": true, "you": true, "your": true, "we": true,
	"our": true, "their": true, "have": true, "has": true, "this": true,
	"that": true, "able": true, "strong": true, "experience": true,
	"years": true, "work": true, "working": true, "team": true,
}

// tokenize lowercases text and splits it into stopword-filtered terms
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 || stopwords[field] {
			continue
		}
		terms = append(terms, field)
	}
	return terms
}

// termSet builds a set of unique terms from text
func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, term := range tokenize(text) {
		set[term] = true
	}
	return set
}
