package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/export"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/schemas"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a talent pool against criteria",
	Long:  "Scores every candidate in a JSON array, ranks them by score (ties by candidate ID) and optionally uploads the shortlist to S3. Records that cannot be scored are listed as skipped.",
	RunE:  runRank,
}

var (
	rankCandidates string
	rankCriteria   string
	rankOutput     string
	rankMinScore   int
)

func init() {
	rankCmd.Flags().StringVarP(&rankCandidates, "candidates", "c", "", "Path to input JSON array of CandidateProfile (required)")
	rankCmd.Flags().StringVarP(&rankCriteria, "criteria", "m", "", "Path to input MatchCriteria JSON file")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Path to output RankedCandidates JSON file")
	rankCmd.Flags().IntVar(&rankMinScore, "min-score", 0, "Drop candidates scoring below this value (0-100)")
	rankCmd.Flags().Int("workers", 0, "Concurrent scoring workers (0 uses GOMAXPROCS)")
	rankCmd.Flags().String("export-bucket", "", "Upload the shortlist to this S3 bucket")
	markRequired(rankCmd, "candidates")

	mustBind("scoring.workers", rankCmd.Flags().Lookup("workers"))
	mustBind("export.bucket", rankCmd.Flags().Lookup("export-bucket"))

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	if rankMinScore < 0 || rankMinScore > 100 {
		return fmt.Errorf("--min-score must be between 0 and 100, got %d", rankMinScore)
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, err := readFile("candidates", rankCandidates)
	if err != nil {
		return err
	}
	pool, skipped, err := parsing.DecodeCandidatePool(data)
	if err != nil {
		return err
	}
	criteria, err := loadCriteria(rankCriteria)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ranked, err := ranking.RankCandidates(ctx, pool, *criteria, cfg.Scoring.Workers)
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}
	ranked = ranking.FilterByMinScore(ranked, rankMinScore)
	ranked.Skipped = parsing.MergeSkipped(skipped, ranked.Skipped)

	if cfg.Export.Bucket != "" {
		client, err := export.NewS3Client(ctx, cfg.Export)
		if err != nil {
			return err
		}
		key, err := export.NewExporter(client, cfg.Export.Bucket, cfg.Export.Prefix, log).Export(ctx, *criteria, ranked)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported shortlist to s3://%s/%s\n", cfg.Export.Bucket, key)
	}

	if rankOutput != "" {
		if err := writeJSON(rankOutput, ranked, schemas.RankedCandidates); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully ranked %d candidates to %s\n", len(ranked.Ranked), rankOutput)
		return nil
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintRankedCandidates(ranked)
	return nil
}
