package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["bullets"],
	"properties": {
		"bullets": {
			"type": "array",
			"minItems": 1,
			"items": { "type": "string" }
		}
	}
}`

func TestValidateString_Valid(t *testing.T) {
	err := ValidateString(testSchema, `{"bullets": ["Built a thing"]}`)
	assert.NoError(t, err)
}

func TestValidateString_MissingRequiredField(t *testing.T) {
	err := ValidateString(testSchema, `{"other": 1}`)

	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Summary(), "bullets")
}

func TestValidateString_WrongType(t *testing.T) {
	err := ValidateString(testSchema, `{"bullets": "not an array"}`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bullets", ve.Errors[0].Field)
}

func TestValidateString_MalformedDocument(t *testing.T) {
	err := ValidateString(testSchema, `{not json`)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidationError_ErrorFormat(t *testing.T) {
	ve := &ValidationError{Errors: []FieldError{
		{Field: "bullets", Message: "is required"},
		{Field: "score", Message: "must be a number"},
	}}

	msg := ve.Error()
	assert.Contains(t, msg, "1. bullets: is required")
	assert.Contains(t, msg, "2. score: must be a number")
}
