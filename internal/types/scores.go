//nolint:revive // types is a standard Go package name pattern
package types

// Category weights for the overall compatibility score
const (
	WeightKeywords   = 0.35
	WeightSkills     = 0.30
	WeightExperience = 0.25
	WeightFormatting = 0.10
)

// ScoreBreakdown is the four-way compatibility score breakdown.
// Every value is clamped into [0.0, 1.0] before being stored.
type ScoreBreakdown struct {
	Keywords   float64 `json:"keywords"`
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Formatting float64 `json:"formatting"`
}

// Clamp restricts a score to [0.0, 1.0]
func Clamp(value float64) float64 {
	if value < 0.0 {
		return 0.0
	}
	if value > 1.0 {
		return 1.0
	}
	return value
}

// Clamped returns a copy of the breakdown with every category clamped
func (b ScoreBreakdown) Clamped() ScoreBreakdown {
	return ScoreBreakdown{
		Keywords:   Clamp(b.Keywords),
		Skills:     Clamp(b.Skills),
		Experience: Clamp(b.Experience),
		Formatting: Clamp(b.Formatting),
	}
}

// Weakest names the lowest-scoring category, ties resolved in weight
// order (keywords, skills, experience, formatting). Retry rewrites use
// it to target the weakest sub-score.
func (b ScoreBreakdown) Weakest() string {
	weakest, low := "keywords", b.Keywords
	if b.Skills < low {
		weakest, low = "skills", b.Skills
	}
	if b.Experience < low {
		weakest, low = "experience", b.Experience
	}
	if b.Formatting < low {
		weakest = "formatting"
	}
	return weakest
}

// WeightedOverall computes the overall score from the category weights
func (b ScoreBreakdown) WeightedOverall() float64 {
	overall := WeightKeywords*b.Keywords +
		WeightSkills*b.Skills +
		WeightExperience*b.Experience +
		WeightFormatting*b.Formatting
	return Clamp(overall)
}
