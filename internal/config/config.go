// Package config provides run option loading and validation for the CLI
// and the orchestration service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/jobfit-core/internal/pipeline"
)

// Options holds the named tuning parameters consumed by the
// orchestration service. All fields are optional in the JSON file;
// missing values fall back to defaults via MergeWithDefaults.
type Options struct {
	// Pipeline policy
	ScoreThreshold     float64 `json:"score_threshold,omitempty" validate:"gte=0,lte=1"`
	MaxRewriteAttempts int     `json:"max_rewrite_attempts,omitempty" validate:"gte=0,lte=10"`
	TopKChunks         int     `json:"top_k_chunks,omitempty" validate:"gte=0,lte=50"`

	// Budget guardrails
	MaxTotalTokens       int `json:"max_total_tokens,omitempty" validate:"gte=0"`
	MaxPipelineLatencyMS int `json:"max_pipeline_latency_ms,omitempty" validate:"gte=0"`
	MaxModelCalls        int `json:"max_model_calls,omitempty" validate:"gte=0"`

	// Scorer fast path: rule-based confidence above which the model
	// call is skipped. Values above 1.0 disable the fast path.
	RuleConfidence float64 `json:"rule_confidence,omitempty" validate:"gte=0,lte=2"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	JSONLogs    bool   `json:"json_logs,omitempty"`
	Verbose     bool   `json:"verbose,omitempty"`
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		ScoreThreshold:       0.75,
		MaxRewriteAttempts:   2,
		TopKChunks:           8,
		MaxTotalTokens:       7000,
		MaxPipelineLatencyMS: 55000,
		MaxModelCalls:        6,
		RuleConfidence:       0.72,
	}
}

// Load reads options from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Options, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var opts Options
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &opts, nil
}

var validate = validator.New()

// Validate checks the options against their allowed ranges
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return fmt.Errorf("config error: field %s failed %s validation (value %v)",
				first.Field(), first.Tag(), first.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults fills zero-valued numeric fields from defaults.
// Bool and string fields keep their set values; a zero numeric field is
// treated as unset since no guardrail is meaningfully zero.
func (o *Options) MergeWithDefaults(defaults Options) Options {
	result := *o

	if result.ScoreThreshold == 0 {
		result.ScoreThreshold = defaults.ScoreThreshold
	}
	if result.MaxRewriteAttempts == 0 {
		result.MaxRewriteAttempts = defaults.MaxRewriteAttempts
	}
	if result.TopKChunks == 0 {
		result.TopKChunks = defaults.TopKChunks
	}
	if result.MaxTotalTokens == 0 {
		result.MaxTotalTokens = defaults.MaxTotalTokens
	}
	if result.MaxPipelineLatencyMS == 0 {
		result.MaxPipelineLatencyMS = defaults.MaxPipelineLatencyMS
	}
	if result.MaxModelCalls == 0 {
		result.MaxModelCalls = defaults.MaxModelCalls
	}
	if result.RuleConfidence == 0 {
		result.RuleConfidence = defaults.RuleConfidence
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	return result
}

// Budget converts the guardrail fields into the pipeline budget
func (o *Options) Budget() pipeline.Budget {
	return pipeline.Budget{
		MaxTotalTokens: o.MaxTotalTokens,
		MaxLatency:     time.Duration(o.MaxPipelineLatencyMS) * time.Millisecond,
		MaxModelCalls:  o.MaxModelCalls,
	}
}
