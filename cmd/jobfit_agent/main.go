// Package main provides the entry point for the JobFit optimization CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobfit_agent",
	Short: "JobFit resume optimization agent",
	Long:  "JobFit rewrites resume content against a target job description, scores ATS compatibility, reports skill gaps, and generates interview preparation material.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
