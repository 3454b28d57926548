package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/jobfit-core/internal/config"
	"github.com/jonathan/jobfit-core/internal/db"
	"github.com/jonathan/jobfit-core/internal/llm"
	"github.com/jonathan/jobfit-core/internal/logger"
	"github.com/jonathan/jobfit-core/internal/orchestration"
	"github.com/jonathan/jobfit-core/internal/types"
)

// loadOptions merges a config file (when given) with defaults
func loadOptions(configPath string) (config.Options, error) {
	opts := config.DefaultOptions()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to load config: %w", err)
		}
		opts = loaded.MergeWithDefaults(config.DefaultOptions())
	}
	if err := opts.Validate(); err != nil {
		return config.Options{}, err
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if opts.APIKey == "" {
		return config.Options{}, fmt.Errorf("GEMINI_API_KEY environment variable or api_key config value is required")
	}
	if opts.DatabaseURL == "" {
		opts.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	return opts, nil
}

func buildLogger(opts config.Options) (*zap.Logger, error) {
	return logger.New(opts.JSONLogs, opts.Verbose)
}

// buildInvoker constructs the Gemini-backed model invoker
func buildInvoker(ctx context.Context, opts config.Options) (*llm.Invoker, error) {
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), opts.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return llm.NewInvoker(client), nil
}

// collaborators holds the optional database-backed services. All nil
// when no database is configured; the run still works, unmetered.
type collaborators struct {
	database *db.DB
	quota    orchestration.QuotaChecker
	usage    orchestration.UsageRecorder
	results  orchestration.ResultRepository
}

func connectCollaborators(ctx context.Context, opts config.Options, log *zap.Logger) collaborators {
	if opts.DatabaseURL == "" {
		return collaborators{}
	}
	database, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		log.Warn("failed to connect to database, continuing without persistence", zap.Error(err))
		return collaborators{}
	}
	return collaborators{
		database: database,
		quota:    database.Quota(),
		usage:    database.Usage(),
		results:  database.Runs(),
	}
}

func (c collaborators) close() {
	if c.database != nil {
		c.database.Close()
	}
}

// readJD loads the job description text from a file
func readJD(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description %s: %w", path, err)
	}
	return string(data), nil
}

// readChunks loads resume chunks from a JSON file: an array of
// {"section": ..., "text": ..., "position": ...} objects.
func readChunks(path string) ([]types.ResumeChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume chunks %s: %w", path, err)
	}
	var chunks []types.ResumeChunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("failed to parse resume chunks JSON: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("resume chunks file %s is empty", path)
	}
	return chunks, nil
}
