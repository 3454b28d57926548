//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// RequirementProfile is the structured requirement set extracted from a
// job description by the requirement extractor stage.
type RequirementProfile struct {
	HardSkills       []string           `json:"hard_skills"`
	SoftSkills       []string           `json:"soft_skills"`
	Responsibilities []string           `json:"responsibilities"`
	Qualifications   []string           `json:"qualifications"`
	KeywordWeights   map[string]float64 `json:"keyword_weights"`
}

// Keywords returns the weighted keywords ordered by descending weight,
// ties broken alphabetically so the ordering is deterministic.
func (p *RequirementProfile) Keywords() []string {
	keywords := make([]string, 0, len(p.KeywordWeights))
	for keyword := range p.KeywordWeights {
		keywords = append(keywords, keyword)
	}
	sort.Slice(keywords, func(i, j int) bool {
		wi, wj := p.KeywordWeights[keywords[i]], p.KeywordWeights[keywords[j]]
		if wi != wj {
			return wi > wj
		}
		return keywords[i] < keywords[j]
	})
	return keywords
}

// AllTerms returns every requirement term (skills, responsibilities,
// qualifications, weighted keywords) as a flat deduplicated list.
// Used as query terms for retrieval and for rule-based keyword scoring.
func (p *RequirementProfile) AllTerms() []string {
	seen := make(map[string]bool)
	terms := make([]string, 0)
	add := func(items []string) {
		for _, item := range items {
			if item != "" && !seen[item] {
				seen[item] = true
				terms = append(terms, item)
			}
		}
	}
	add(p.HardSkills)
	add(p.SoftSkills)
	add(p.Responsibilities)
	add(p.Qualifications)
	add(p.Keywords())
	return terms
}
