package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niveshquant/quantfolio/internal/allocation"
	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/enrich"
	"github.com/niveshquant/quantfolio/internal/gate"
	"github.com/niveshquant/quantfolio/internal/ingest"
	"github.com/niveshquant/quantfolio/internal/pipeline"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/internal/scoring"
	"github.com/niveshquant/quantfolio/internal/selection"
	"github.com/niveshquant/quantfolio/internal/store"
	"github.com/niveshquant/quantfolio/internal/strategy"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/database"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/metrics"
	"github.com/niveshquant/quantfolio/pkg/redis"
)

// loadStrategy resolves the run strategy: the configured YAML file when
// set, the built-in defaults otherwise.
func loadStrategy(cfg *config.Config) (*strategy.Config, string, error) {
	strat := strategy.Default()
	if cfg.Data.StrategyFile != "" {
		loaded, _, err := strategy.Load(cfg.Data.StrategyFile)
		if err != nil {
			return nil, "", fmt.Errorf("load strategy: %w", err)
		}
		strat = loaded
	}

	hash, err := strategy.Hash(strat)
	if err != nil {
		return nil, "", fmt.Errorf("hash strategy: %w", err)
	}
	return strat, hash, nil
}

// initStore opens the configured persistence backend. The returned
// cleanup releases its connections.
func initStore(cfg *config.Config, log *logger.Logger) (contracts.RecommendationStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return store.NewPostgresStore(db.Pool), db.Close, nil
	default:
		fileStore, err := store.NewFileStore(cfg.Storage.Dir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("open report store: %w", err)
		}
		return fileStore, func() {}, nil
	}
}

// initRunner builds the complete weekly pipeline from configuration.
// It also returns the store for callers serving reads, and a cleanup
// releasing every connection the wiring opened.
func initRunner(cfg *config.Config, log *logger.Logger) (*pipeline.Runner, contracts.RecommendationStore, func(), error) {
	// 1. Strategy
	strat, strategyHash, err := loadStrategy(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	table := strat.SectorTable()

	// 2. Persistence
	st, storeCleanup, err := initStore(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}

	// 3. Redis, shared by the store cache and the scorer cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		storeCleanup()
		return nil, nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	cleanup := func() {
		redisClient.Close()
		storeCleanup()
	}
	if redisClient.Enabled() {
		st = store.NewCachedStore(st, redisClient)
	}

	// 4. Qualitative scorer, optional
	var scorer contracts.QualitativeScorer
	switch cfg.Enrichment.Provider {
	case "bedrock":
		bedrock, err := enrich.NewBedrockScorer(context.Background(), cfg.Enrichment, log)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("init bedrock scorer: %w", err)
		}
		scorer = bedrock
	case "http":
		scorer = enrich.NewHTTPScorer(cfg, redisClient, log)
	}
	if scorer != nil && redisClient.Enabled() {
		scorer = enrich.NewCachedScorer(scorer, redisClient, cfg.Enrichment.CacheTTL)
	}

	// 5. Pipeline
	runner := pipeline.NewRunner(
		ingest.NewLoader(log),
		gate.New(table, strat.Gate),
		scoring.NewEngine(table, strat.Scoring, log),
		selection.NewRanker(table, log),
		allocation.NewEngine(strat.Allocation, log),
		allocation.NewValidator(strat.Allocation),
		enrich.New(enrich.DefaultConfig(), scorer, log),
		recommend.NewAssembler(strat.Report, log),
		st,
		cfg.Storage.Backend,
		strategyHash,
		metrics.GetMetrics(),
		log,
	)

	return runner, st, cleanup, nil
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
}
