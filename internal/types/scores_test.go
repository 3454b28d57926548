package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.3))
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, 0.42, Clamp(0.42))
}

func TestClamped(t *testing.T) {
	b := ScoreBreakdown{Keywords: -0.1, Skills: 1.4, Experience: 0.5, Formatting: 0.9}.Clamped()
	assert.Equal(t, ScoreBreakdown{Keywords: 0, Skills: 1, Experience: 0.5, Formatting: 0.9}, b)
}

func TestWeakest(t *testing.T) {
	tests := []struct {
		name      string
		breakdown ScoreBreakdown
		want      string
	}{
		{"skills lowest", ScoreBreakdown{Keywords: 0.8, Skills: 0.2, Experience: 0.5, Formatting: 0.9}, "skills"},
		{"formatting lowest", ScoreBreakdown{Keywords: 0.8, Skills: 0.7, Experience: 0.5, Formatting: 0.1}, "formatting"},
		{"tie resolves in weight order", ScoreBreakdown{Keywords: 0.5, Skills: 0.5, Experience: 0.5, Formatting: 0.5}, "keywords"},
		{"experience lowest", ScoreBreakdown{Keywords: 0.9, Skills: 0.8, Experience: 0.3, Formatting: 0.7}, "experience"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.breakdown.Weakest())
		})
	}
}

func TestWeightedOverall(t *testing.T) {
	b := ScoreBreakdown{Keywords: 1, Skills: 1, Experience: 1, Formatting: 1}
	assert.InDelta(t, 1.0, b.WeightedOverall(), 1e-9)

	b = ScoreBreakdown{Keywords: 0.8, Skills: 0.6, Experience: 0.4, Formatting: 0.2}
	// 0.35*0.8 + 0.30*0.6 + 0.25*0.4 + 0.10*0.2
	assert.InDelta(t, 0.58, b.WeightedOverall(), 1e-9)
}
