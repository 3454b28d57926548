package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jobfit-core/internal/interview"
	"github.com/jonathan/jobfit-core/internal/observability"
)

var interviewCommand = &cobra.Command{
	Use:   "interview",
	Short: "Generate interview questions and a cover letter",
	Long: `Generates likely interview questions (behavioral, technical,
situational) with STAR-format answer suggestions, plus a tailored cover
letter, from a job description and optimized resume bullets.`,
	RunE: runInterviewCmd,
}

var (
	intConfigPath string
	intJDPath     string
	intChunksPath string
	intTone       string
	intTenant     string
	intRequester  string
	intShowUsage  bool
)

func init() {
	interviewCommand.Flags().StringVar(&intConfigPath, "config", "", "Path to config.json file")
	interviewCommand.Flags().StringVarP(&intJDPath, "jd", "j", "", "Path to job description text file (required)")
	interviewCommand.Flags().StringVarP(&intChunksPath, "resume", "r", "", "Path to resume chunks JSON file (required)")
	interviewCommand.Flags().StringVar(&intTone, "tone", "professional", "Cover letter tone: professional, casual, formal")
	interviewCommand.Flags().StringVar(&intTenant, "tenant", "default", "Tenant identifier")
	interviewCommand.Flags().StringVar(&intRequester, "requester", "cli", "Requester identifier")
	interviewCommand.Flags().BoolVar(&intShowUsage, "usage", false, "Print token usage after the run")

	_ = interviewCommand.MarkFlagRequired("jd")
	_ = interviewCommand.MarkFlagRequired("resume")

	rootCmd.AddCommand(interviewCommand)
}

func runInterviewCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	opts, err := loadOptions(intConfigPath)
	if err != nil {
		return err
	}
	log, err := buildLogger(opts)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jdText, err := readJD(intJDPath)
	if err != nil {
		return err
	}
	chunks, err := readChunks(intChunksPath)
	if err != nil {
		return err
	}
	bullets := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		bullets = append(bullets, chunk.Text)
	}

	invoker, err := buildInvoker(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = invoker.Close() }()

	collab := connectCollaborators(ctx, opts, log)
	defer collab.close()

	svc := interview.NewService(invoker, collab.quota, collab.usage, log)

	kit, usage, err := svc.Generate(ctx, interview.Request{
		TenantID:    intTenant,
		RequesterID: intRequester,
		JDText:      jdText,
		Bullets:     bullets,
		Tone:        intTone,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintInterviewKit(kit)
	if intShowUsage {
		printer.PrintUsage(usage)
	}
	return nil
}
