// Package llm provides the model invoker: a uniform interface over the
// text-generation backend with model tiers, token accounting, and bounded
// retry of transient failures.
package llm

// ModelTier represents the capability level requested for a call
type ModelTier string

const (
	// TierLite is the cheap deterministic tier: extraction, scoring, classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning tasks
	TierStandard ModelTier = "standard"
	// TierAdvanced is the capable creative tier: rewriting, gap analysis, generation
	TierAdvanced ModelTier = "advanced"
)

// Config maps model tiers to concrete backend model names
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini tier mapping
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// Model returns the model name for a tier, falling back down the tier
// ladder when the requested tier is not configured.
func (c *Config) Model(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
