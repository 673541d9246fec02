package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/charts-service/internal/cache"
	"github.com/actuallystonmai/charts-service/internal/chart"
	"github.com/actuallystonmai/charts-service/internal/config"
	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/handler"
	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/notify"
	"github.com/actuallystonmai/charts-service/internal/repository"
	"github.com/actuallystonmai/charts-service/internal/router"
	"github.com/actuallystonmai/charts-service/internal/service"
	"github.com/actuallystonmai/charts-service/internal/trending"
	"github.com/actuallystonmai/charts-service/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// exit last, after every deferred Close below has run
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	repo := repository.New(pool)
	if err := waitForDB(ctx, repo); err != nil {
		logging.Fatal().Err(err).Msg("database not ready")
	}
	logging.Info().Msg("connected to PostgreSQL")

	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if command == "migrate-down" {
		if err := migrateDown(ctx, pool); err != nil {
			logging.Fatal().Err(err).Msg("failed to migrate down")
		}
		return
	}

	if err := migrateUp(ctx, pool); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate up")
	}

	// ------------ Setup Seed Data ---------------
	if command == "seed" {
		if err := seeds.Setup(ctx, pool); err != nil {
			logging.Fatal().Err(err).Msg("failed to seed")
		}
		return
	}
	if err := checkSeed(ctx, pool); err != nil {
		logging.Fatal().Err(err).Msg("failed to check seed")
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to parse redis url")
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	chartCache := cache.NewCache(rdb, cfg.CacheTTL)
	if err := chartCache.Ping(ctx); err != nil {
		// cache and notifications degrade, charts are still served
		logging.Warn().Err(err).Msg("redis unavailable at startup")
	}

	// ------------ Notifier ---------------
	notifier := notify.NewAsync(
		notify.NewBreaker(notify.NewRedisPublisher(rdb, cfg.NotifyChannelPrefix), notify.BreakerConfig{
			Name:             "redis-notifier",
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout,
		}),
		cfg.NotifyQueueSize,
		cfg.NotifyTimeout,
	)
	defer notifier.Close()

	// ------------ Engine ---------------
	aggregator := trending.NewAggregator(repo, repo)
	builder := chart.NewBuilder(aggregator, repo, repo, notifier)
	svc := service.NewService(service.Deps{
		Aggregator: aggregator,
		Global:     trending.NewGlobalMerger(aggregator, notifier),
		Builder:    builder,
		Recorder:   chart.NewRecorder(builder, repo),
		Snapshots:  repo,
		Cache:      chartCache,
	})

	// weekly job entry point, e.g. from cron
	if command == "snapshot" {
		if !recordSnapshots(ctx, svc) {
			exitCode = 1
		}
		return
	}

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.Setup(handler.NewHandler(svc), router.Options{
			RequestTimeout:     cfg.RequestTimeout,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// recordSnapshots records every category and reports whether all succeeded.
func recordSnapshots(ctx context.Context, svc *service.Service) bool {
	ok := true
	for _, res := range svc.RecordSnapshots(ctx, domain.Categories) {
		if res.Status == domain.StatusFailed {
			ok = false
		}
		logging.Info().Str("category", string(res.Category)).Str("week", res.Week).
			Int("entries", res.Entries).Str("status", res.Status).Msg("snapshot")
	}
	return ok
}

func waitForDB(ctx context.Context, repo *repository.Repository) error {
	for i := 0; i < 30; i++ {
		if err := repo.Ping(ctx); err == nil {
			return nil
		}
		logging.Info().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return fmt.Errorf("check content count: %w", err)
	}
	if count > 0 {
		logging.Info().Int("items", count).Msg("database already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}
