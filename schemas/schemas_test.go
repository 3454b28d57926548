package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemas_ValidJSON(t *testing.T) {
	names := []string{
		Requirements,
		Rewrite,
		Score,
		Gaps,
		InterviewQuestions,
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			content, err := Get(name)
			require.NoError(t, err)

			var v interface{}
			err = json.Unmarshal([]byte(content), &v)
			assert.NoError(t, err, "schema should be valid JSON: %s", name)
		})
	}
}

func TestGet_Missing(t *testing.T) {
	_, err := Get("missing.schema.json")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("missing.schema.json") })
}
