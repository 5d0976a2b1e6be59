package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/export"
	"github.com/jonathan/talent-match/internal/server"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the scoring, ranking and talent pool endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("database-url", "", "PostgreSQL connection string for the talent pool")
	serveCmd.Flags().String("cache-backend", "memory", "Score cache backend: memory, sqlite or postgres")

	mustBind("port", serveCmd.Flags().Lookup("port"))
	mustBind("database-url", serveCmd.Flags().Lookup("database-url"))
	mustBind("cache.backend", serveCmd.Flags().Lookup("cache-backend"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	srvCfg := server.Config{
		Port:      cfg.Port,
		Cache:     b.cache,
		RateLimit: ratelimit.FromSettings(cfg.RateLimit),
		Workers:   cfg.Scoring.Workers,
		Logger:    log,
	}
	if b.database != nil {
		srvCfg.Candidates = b.database
	} else {
		log.Warn("database-url not set, talent pool routes are disabled")
	}

	if cfg.Export.Bucket != "" {
		client, err := export.NewS3Client(ctx, cfg.Export)
		if err != nil {
			return fmt.Errorf("failed to create export client: %w", err)
		}
		srvCfg.Exporter = export.NewExporter(client, cfg.Export.Bucket, cfg.Export.Prefix, log)
	}

	log.Info("starting talent-match server",
		zap.Int("port", cfg.Port),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("export", srvCfg.Exporter != nil),
	)
	return server.New(srvCfg).Start(ctx)
}
