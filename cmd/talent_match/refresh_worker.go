package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/refresh"
	"github.com/jonathan/talent-match/internal/types"
)

var refreshWorkerCmd = &cobra.Command{
	Use:   "refresh-worker",
	Short: "Recompute cached scores when candidates change",
	Long:  "Consumes candidate change events from RabbitMQ, invalidates the candidate's cached scores and recomputes them for the configured criteria set.",
	RunE:  runRefreshWorker,
}

func init() {
	refreshWorkerCmd.Flags().String("amqp-url", "", "RabbitMQ connection URL (required)")
	refreshWorkerCmd.Flags().String("queue", "candidate.updated", "Queue carrying candidate change events")
	refreshWorkerCmd.Flags().String("exchange", "", "Exchange receiving score.refreshed notifications")
	refreshWorkerCmd.Flags().String("criteria", "", "Path to the criteria set (object or array) to recompute")

	mustBind("amqp.url", refreshWorkerCmd.Flags().Lookup("amqp-url"))
	mustBind("amqp.queue", refreshWorkerCmd.Flags().Lookup("queue"))
	mustBind("amqp.exchange", refreshWorkerCmd.Flags().Lookup("exchange"))
	mustBind("scoring.criteria-file", refreshWorkerCmd.Flags().Lookup("criteria"))

	rootCmd.AddCommand(refreshWorkerCmd)
}

func runRefreshWorker(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.AMQP.URL == "" {
		return errors.New("amqp.url is required for the refresh worker")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database-url is required for the refresh worker")
	}

	criteria, err := loadCriteriaSet(cfg.Scoring.CriteriaFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	handler := refresh.NewHandler(b.database, b.cache, criteria, nil, log)
	consumer := refresh.NewConsumer(refresh.ConsumerConfig{
		URL:      cfg.AMQP.URL,
		Queue:    cfg.AMQP.Queue,
		Prefetch: cfg.AMQP.Prefetch,
		Exchange: cfg.AMQP.Exchange,
	}, handler, log)

	log.Info("starting refresh worker",
		zap.String("queue", cfg.AMQP.Queue),
		zap.Int("criteria", len(criteria)),
		zap.String("cache_backend", cfg.Cache.Backend),
	)
	return consumer.Run(ctx)
}

// loadCriteriaSet reads the criteria recomputed on each event. An empty path is the neutral filter.
func loadCriteriaSet(path string) ([]types.MatchCriteria, error) {
	if path == "" {
		return refresh.ParseCriteriaSet(nil)
	}
	data, err := readFile("criteria", path)
	if err != nil {
		return nil, err
	}
	return refresh.ParseCriteriaSet(data)
}
