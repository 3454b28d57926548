// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/jobfit-core/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI results
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResult outputs a human-readable summary of an optimization run
func (p *Printer) PrintResult(result *types.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overall score:  %.2f\n", result.Score))
	sb.WriteString("\n")
	sb.WriteString("Breakdown:\n")
	sb.WriteString(fmt.Sprintf("  keywords:    %.2f\n", result.Breakdown.Keywords))
	sb.WriteString(fmt.Sprintf("  skills:      %.2f\n", result.Breakdown.Skills))
	sb.WriteString(fmt.Sprintf("  experience:  %.2f\n", result.Breakdown.Experience))
	sb.WriteString(fmt.Sprintf("  formatting:  %.2f\n", result.Breakdown.Formatting))
	sb.WriteString(fmt.Sprintf("\nRewrite attempts: %d\n", result.RewriteAttempts))

	p.printBox(fmt.Sprintf("Compatibility Score — run %s", shortID(result.RunID.String())), sb.String())

	p.printBullets(result.RewrittenBullets)
	p.printGaps(result.Gaps)
	p.printDegradation(result.Errors)
}

// printBullets outputs the rewritten resume content
func (p *Printer) printBullets(bullets []string) {
	if len(bullets) == 0 {
		return
	}

	var sb strings.Builder
	for i, bullet := range bullets {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, bullet))
	}
	p.printBox(fmt.Sprintf("Rewritten Bullets (%d)", len(bullets)), sb.String())
}

// printGaps outputs the gap report
func (p *Printer) printGaps(gaps *types.GapReport) {
	if gaps == nil {
		return
	}

	var sb strings.Builder

	if len(gaps.MissingSkills) > 0 {
		sb.WriteString("Missing skills:\n")
		count := min(len(gaps.MissingSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			skill := gaps.MissingSkills[i]
			sb.WriteString(fmt.Sprintf("  • %s (%s)\n", skill.Name, skill.Priority))
		}
		if len(gaps.MissingSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(gaps.MissingSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(gaps.Recommendations) > 0 {
		sb.WriteString("Recommendations:\n")
		for _, rec := range gaps.Recommendations {
			sb.WriteString(fmt.Sprintf("  • %s\n", rec))
		}
		sb.WriteString("\n")
	}

	if len(gaps.TransferableSkills) > 0 {
		sb.WriteString("Transferable skills:\n")
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(gaps.TransferableSkills, ", ")))
	}

	if sb.Len() == 0 {
		sb.WriteString("No gaps identified.\n")
	}

	p.printBox("Gap Analysis", sb.String())
}

// printDegradation lists the non-fatal errors accumulated during the run
func (p *Printer) printDegradation(errs []types.StageError) {
	if len(errs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("The run completed with degraded stages:\n\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", e.Stage, e.Kind, e.Message))
	}
	p.printBox("Degradation Notes", sb.String())
}

// PrintInterviewKit outputs the generated interview preparation material
func (p *Printer) PrintInterviewKit(kit *types.InterviewKit) {
	if kit == nil {
		return
	}

	var sb strings.Builder
	for i, q := range kit.Questions {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, q.Category, q.Question))
		sb.WriteString(fmt.Sprintf("   Suggested: %s\n\n", q.SuggestedAnswer))
	}
	if sb.Len() == 0 {
		sb.WriteString("No questions generated.\n")
	}
	p.printBox(fmt.Sprintf("Interview Questions (%d)", len(kit.Questions)), sb.String())

	if kit.CoverLetter != "" {
		p.printBox(fmt.Sprintf("Cover Letter (%s)", kit.Tone), kit.CoverLetter)
	}
	p.printDegradation(kit.Errors)
}

// PrintUsage outputs the token accounting for a run
func (p *Printer) PrintUsage(report *types.UsageReport) {
	if report == nil {
		return
	}

	stages := make([]string, 0, len(report.StageTokens))
	for stage := range report.StageTokens {
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total tokens: %d\n\n", report.TotalTokens))
	for _, stage := range stages {
		sb.WriteString(fmt.Sprintf("  %-24s %d\n", stage, report.StageTokens[stage]))
	}
	p.printBox("Token Usage", sb.String())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
