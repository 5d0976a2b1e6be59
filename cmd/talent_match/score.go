package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/schemas"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against criteria",
	Long:  "Scores a candidate profile against filter or job criteria and prints the match result with its component breakdown. Without --criteria the neutral filter is used.",
	RunE:  runScore,
}

var (
	scoreCandidate string
	scoreCriteria  string
	scoreOutput    string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreCandidate, "candidate", "c", "", "Path to input CandidateProfile JSON file (required)")
	scoreCmd.Flags().StringVarP(&scoreCriteria, "criteria", "m", "", "Path to input MatchCriteria JSON file")
	scoreCmd.Flags().StringVarP(&scoreOutput, "out", "o", "", "Path to output MatchResult JSON file")
	markRequired(scoreCmd, "candidate")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	candidate, err := loadCandidate(scoreCandidate)
	if err != nil {
		return err
	}
	criteria, err := loadCriteria(scoreCriteria)
	if err != nil {
		return err
	}

	result, err := ranking.Score(candidate, *criteria)
	if err != nil {
		return fmt.Errorf("failed to score candidate %s: %w", candidate.ID, err)
	}

	if scoreOutput != "" {
		if err := writeJSON(scoreOutput, result, schemas.MatchResult); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Scored %s: %d, written to %s\n", candidate.ID, result.Score, scoreOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMatchResult(candidate.ID, &result)
	return nil
}
