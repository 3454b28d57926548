// Package types provides type definitions for structured data used throughout the jobfit-core system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// SectionKind identifies which resume section a chunk was extracted from
type SectionKind string

// Resume section kinds produced by the upstream chunk provider
const (
	SectionSummary    SectionKind = "summary"
	SectionExperience SectionKind = "experience"
	SectionEducation  SectionKind = "education"
	SectionSkills     SectionKind = "skills"
	SectionProjects   SectionKind = "projects"
	SectionOther      SectionKind = "other"
)

// ResumeChunk is one already-parsed piece of resume content.
// Chunks arrive pre-validated from the upstream provider; the pipeline
// treats them as read-only input.
type ResumeChunk struct {
	Section  SectionKind `json:"section"`
	Text     string      `json:"text"`
	Position int         `json:"position"`
}

// RankedChunk is a resume chunk annotated with a relevance score from
// the retrieval index. Relevance is always in [0.0, 1.0].
type RankedChunk struct {
	Section   SectionKind `json:"section"`
	Text      string      `json:"text"`
	Relevance float64     `json:"relevance"`
}
