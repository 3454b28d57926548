// Package schemas embeds the JSON Schema definitions for stage outputs.
// Each stage agent validates raw model output against its schema before
// accepting it into pipeline state.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema file names
const (
	Requirements       = "requirements.schema.json"
	Rewrite            = "rewrite.schema.json"
	Score              = "score.schema.json"
	Gaps               = "gaps.schema.json"
	InterviewQuestions = "interview_questions.schema.json"
)

// Get returns the raw schema content by file name
func Get(name string) (string, error) {
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not found: %w", name, err)
	}
	return string(data), nil
}

// MustGet returns the raw schema content, panicking on a missing name.
// Schemas are embedded, so a miss is a programming error.
func MustGet(name string) string {
	content, err := Get(name)
	if err != nil {
		panic(err)
	}
	return content
}
