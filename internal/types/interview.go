//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/google/uuid"

// Interview question categories
const (
	CategoryBehavioral  = "behavioral"
	CategoryTechnical   = "technical"
	CategorySituational = "situational"
)

// ValidQuestionCategory reports whether c is a known category
func ValidQuestionCategory(c string) bool {
	return c == CategoryBehavioral || c == CategoryTechnical || c == CategorySituational
}

// Cover letter tones
const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneFormal       = "formal"
)

// NormalizeTone maps unknown tones to the professional default
func NormalizeTone(tone string) string {
	switch tone {
	case ToneProfessional, ToneCasual, ToneFormal:
		return tone
	default:
		return ToneProfessional
	}
}

// InterviewQuestion is one generated question with a STAR-format answer
// suggestion grounded in the candidate's resume.
type InterviewQuestion struct {
	Category        string `json:"category"`
	Question        string `json:"question"`
	SuggestedAnswer string `json:"suggested_answer"`
}

// InterviewKit is the terminal projection of an interview-prep run
type InterviewKit struct {
	RunID       uuid.UUID           `json:"run_id"`
	Questions   []InterviewQuestion `json:"questions"`
	CoverLetter string              `json:"cover_letter"`
	Tone        string              `json:"tone"`
	Errors      []StageError        `json:"errors"`
}

// Degraded reports whether any generator fell back
func (k *InterviewKit) Degraded() bool {
	return len(k.Errors) > 0
}
