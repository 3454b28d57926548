package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-core/internal/observability"
	"github.com/jonathan/jobfit-core/internal/orchestration"
	"github.com/jonathan/jobfit-core/internal/retrieval"
)

var optimizeCommand = &cobra.Command{
	Use:   "optimize",
	Short: "Run one resume optimization against a job description",
	Long: `Extracts requirements from the job description, retrieves and rewrites
the most relevant resume content, scores ATS compatibility with a bounded
rewrite loop, and reports remaining skill gaps.

Configuration can be loaded from a JSON file using --config.`,
	RunE: runOptimizeCmd,
}

var (
	optConfigPath string
	optJDPath     string
	optChunksPath string
	optTenant     string
	optRequester  string
	optShowUsage  bool
)

func init() {
	optimizeCommand.Flags().StringVar(&optConfigPath, "config", "", "Path to config.json file")
	optimizeCommand.Flags().StringVarP(&optJDPath, "jd", "j", "", "Path to job description text file (required)")
	optimizeCommand.Flags().StringVarP(&optChunksPath, "resume", "r", "", "Path to resume chunks JSON file (required)")
	optimizeCommand.Flags().StringVar(&optTenant, "tenant", "default", "Tenant identifier")
	optimizeCommand.Flags().StringVar(&optRequester, "requester", "cli", "Requester identifier")
	optimizeCommand.Flags().BoolVar(&optShowUsage, "usage", false, "Print token usage after the run")

	_ = optimizeCommand.MarkFlagRequired("jd")
	_ = optimizeCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(optimizeCommand)
}

func runOptimizeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	opts, err := loadOptions(optConfigPath)
	if err != nil {
		return err
	}
	log, err := buildLogger(opts)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jdText, err := readJD(optJDPath)
	if err != nil {
		return err
	}
	chunks, err := readChunks(optChunksPath)
	if err != nil {
		return err
	}

	invoker, err := buildInvoker(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = invoker.Close() }()

	collab := connectCollaborators(ctx, opts, log)
	defer collab.close()

	svc := orchestration.NewService(invoker, retrieval.NewMemoryIndex(), opts,
		collab.quota, collab.usage, collab.results, log)

	result, usage, err := svc.RunOptimization(ctx, optTenant, optRequester, jdText, chunks)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintResult(result)
	if optShowUsage {
		printer.PrintUsage(usage)
	}
	return nil
}
