package agents

import (
	"strings"

	"github.com/jonathan/jobfit-core/internal/types"
)

// ruleScore is the lexical pre-score computed before deciding whether a
// model call is needed at all.
type ruleScore struct {
	overall   float64
	breakdown types.ScoreBreakdown
}

// ruleBasedScore computes keyword and formatting scores lexically.
// Skills and experience need semantic judgment, so they default to 0.5;
// the overall is the usual weighted combination.
func ruleBasedScore(requirements *types.RequirementProfile, bullets []string) ruleScore {
	breakdown := types.ScoreBreakdown{
		Keywords:   ruleKeywordScore(requirements, bullets),
		Skills:     0.5,
		Experience: 0.5,
		Formatting: ruleFormattingScore(bullets),
	}
	return ruleScore{
		overall:   breakdown.WeightedOverall(),
		breakdown: breakdown,
	}
}

// ruleKeywordScore is the share of requirement terms found verbatim in
// the joined bullet text. 0.5 when there are no terms to check.
func ruleKeywordScore(requirements *types.RequirementProfile, bullets []string) float64 {
	terms := make(map[string]bool)
	for _, term := range requirements.AllTerms() {
		if trimmed := strings.ToLower(strings.TrimSpace(term)); trimmed != "" {
			terms[trimmed] = true
		}
	}
	if len(terms) == 0 {
		return 0.5
	}

	var sb strings.Builder
	for _, bullet := range bullets {
		sb.WriteString(strings.ToLower(bullet))
		sb.WriteString(" ")
	}
	text := sb.String()

	found := 0
	for term := range terms {
		if strings.Contains(text, term) {
			found++
		}
	}
	return float64(found) / float64(len(terms))
}

// ruleFormattingScore is the share of bullets with a reasonable length.
// 0.5 when there are no bullets to check.
func ruleFormattingScore(bullets []string) float64 {
	if len(bullets) == 0 {
		return 0.5
	}
	ok := 0
	for _, bullet := range bullets {
		length := len(strings.TrimSpace(bullet))
		if length >= 10 && length <= 500 {
			ok++
		}
	}
	return float64(ok) / float64(len(bullets))
}
