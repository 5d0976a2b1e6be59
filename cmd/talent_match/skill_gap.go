package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/ranking"
)

var skillGapCmd = &cobra.Command{
	Use:   "skill-gap",
	Short: "Compare a candidate's skills to a job",
	Long:  "Lists the job's required skills the candidate matches and the ones missing or held below the required level, with a priority for each gap.",
	RunE:  runSkillGap,
}

var (
	skillGapCandidate string
	skillGapJob       string
	skillGapOutput    string
)

func init() {
	skillGapCmd.Flags().StringVarP(&skillGapCandidate, "candidate", "c", "", "Path to input CandidateProfile JSON file (required)")
	skillGapCmd.Flags().StringVar(&skillGapJob, "job", "", "Path to input JobSpec JSON file (required)")
	skillGapCmd.Flags().StringVarP(&skillGapOutput, "out", "o", "", "Path to output SkillGap JSON file")
	markRequired(skillGapCmd, "candidate", "job")

	rootCmd.AddCommand(skillGapCmd)
}

func runSkillGap(cmd *cobra.Command, _ []string) error {
	candidate, err := loadCandidate(skillGapCandidate)
	if err != nil {
		return err
	}
	job, err := loadJob(skillGapJob)
	if err != nil {
		return err
	}

	gap, err := ranking.AnalyzeSkillGap(candidate, job)
	if err != nil {
		return fmt.Errorf("failed to analyze skill gap for %s: %w", candidate.ID, err)
	}

	if skillGapOutput != "" {
		if err := writeJSON(skillGapOutput, gap, ""); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Found %d skill gaps for %s, written to %s\n", len(gap.Missing), candidate.ID, skillGapOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintSkillGap(&gap)
	return nil
}
