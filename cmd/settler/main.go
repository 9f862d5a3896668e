// Command settler runs one batch settlement pass over every pending
// slip and exits. Intended to run on a schedule (cron or a k8s CronJob)
// after games finish.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/parlayline/platform/internal/infra"
	"github.com/parlayline/platform/internal/odds"
	"github.com/parlayline/platform/internal/provider"
	"github.com/parlayline/platform/internal/repository"
	"github.com/parlayline/platform/internal/settlement"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("settlement run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slipRepo := repository.NewSlipRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	oddsClient := provider.NewOddsAPIClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, logger)
	oddsCache := odds.NewCache(oddsClient, snapshotRepo, cfg.OddsCacheTTL, cfg.ScoresDaysFrom, logger)

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	runner := settlement.NewRunner(slipRepo, oddsCache, producer, logger, cfg.SportKeys, cfg.SettlementWorkers)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("settler finished",
		"slips", summary.Slips,
		"settled", summary.Settled,
		"still_pending", summary.StillPending,
	)
	return nil
}
