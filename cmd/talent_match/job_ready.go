package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/ranking"
)

var jobReadyCmd = &cobra.Command{
	Use:   "job-ready",
	Short: "Show how job-ready a candidate is for their track",
	RunE:  runJobReady,
}

var (
	jobReadyCandidate string
	jobReadyOutput    string
)

func init() {
	jobReadyCmd.Flags().StringVarP(&jobReadyCandidate, "candidate", "c", "", "Path to input CandidateProfile JSON file (required)")
	jobReadyCmd.Flags().StringVarP(&jobReadyOutput, "out", "o", "", "Path to output JobReadiness JSON file")
	markRequired(jobReadyCmd, "candidate")

	rootCmd.AddCommand(jobReadyCmd)
}

func runJobReady(cmd *cobra.Command, _ []string) error {
	candidate, err := loadCandidate(jobReadyCandidate)
	if err != nil {
		return err
	}

	readiness, err := ranking.CalculateJobReadyScore(candidate)
	if err != nil {
		return fmt.Errorf("failed to score readiness for %s: %w", candidate.ID, err)
	}

	if jobReadyOutput != "" {
		if err := writeJSON(jobReadyOutput, readiness, ""); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is %s (%d), written to %s\n", candidate.ID, readiness.Level, readiness.Score, jobReadyOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintJobReadiness(&readiness)
	return nil
}
