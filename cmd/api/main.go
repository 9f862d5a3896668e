package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/parlayline/platform/internal/auth"
	"github.com/parlayline/platform/internal/handler"
	adminhandler "github.com/parlayline/platform/internal/handler/admin"
	"github.com/parlayline/platform/internal/infra"
	"github.com/parlayline/platform/internal/odds"
	"github.com/parlayline/platform/internal/provider"
	"github.com/parlayline/platform/internal/repository"
	"github.com/parlayline/platform/internal/service"
	"github.com/parlayline/platform/internal/settlement"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	// Connect to Postgres
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	// Apply migrations
	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Parse JWT expiry durations
	playerExpiry, err := time.ParseDuration(cfg.JWTPlayerExpiry)
	if err != nil {
		return fmt.Errorf("parse player JWT expiry: %w", err)
	}
	adminExpiry, err := time.ParseDuration(cfg.JWTAdminExpiry)
	if err != nil {
		return fmt.Errorf("parse admin JWT expiry: %w", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, playerExpiry, adminExpiry)

	// Repositories
	slipRepo := repository.NewSlipRepository(pool)
	snapshotRepo := repository.NewSnapshotRepository(pool)

	// Odds provider + cache
	oddsClient := provider.NewOddsAPIClient(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, logger)
	oddsCache := odds.NewCache(oddsClient, snapshotRepo, cfg.OddsCacheTTL, cfg.ScoresDaysFrom, logger)

	// Kafka producer (no-op unless enabled)
	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()

	// Services
	sportsbookSvc := service.NewSportsbookService(slipRepo, oddsCache, cfg.SportKeys, logger)
	runner := settlement.NewRunner(slipRepo, oddsCache, producer, logger, cfg.SportKeys, cfg.SettlementWorkers)

	// Handlers
	sportsbookHandler := handler.NewSportsbookHandler(sportsbookSvc)
	slipAdmin := adminhandler.NewSlipAdminHandler(sportsbookSvc, runner)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(cfg.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Player-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticatePlayer(jwtMgr))

		r.Route("/sportsbook", func(r chi.Router) {
			r.Get("/board", sportsbookHandler.GetBoard)
			r.Post("/preview", sportsbookHandler.PreviewParlay)
			r.Post("/slips", sportsbookHandler.SubmitSlip)
			r.Get("/slips/me", sportsbookHandler.MySlips)
		})
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Get("/slips", slipAdmin.ListSlips)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(auth.WriteRoles()...))

			r.Patch("/slips/{id}/status", slipAdmin.UpdateSlipStatus)
			r.Delete("/slips/{id}", slipAdmin.DeleteSlip)
			r.Post("/settlement/run", slipAdmin.RunSettlement)
		})
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
