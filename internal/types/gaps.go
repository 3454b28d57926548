//nolint:revive // types is a standard Go package name pattern
package types

// GapPriority labels how urgent a missing skill is for the target role
type GapPriority string

// Gap priority labels
const (
	PriorityHigh   GapPriority = "high"
	PriorityMedium GapPriority = "medium"
	PriorityLow    GapPriority = "low"
)

// ValidGapPriority reports whether the label is one of high/medium/low
func ValidGapPriority(p GapPriority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// MissingSkill is a job requirement the resume does not demonstrate
type MissingSkill struct {
	Name     string      `json:"name"`
	Priority GapPriority `json:"priority"`
}

// GapReport summarizes requirements the resume does not cover, with
// actionable recommendations and adjacent skills the candidate can lean on.
type GapReport struct {
	MissingSkills      []MissingSkill `json:"missing_skills"`
	Recommendations    []string       `json:"recommendations"`
	TransferableSkills []string       `json:"transferable_skills"`
}
