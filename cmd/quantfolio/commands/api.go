package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/internal/api"
	"github.com/niveshquant/quantfolio/internal/api/handlers"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
	"github.com/niveshquant/quantfolio/pkg/metrics"
)

const shutdownGrace = 30 * time.Second

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                                - Health check
  GET  /metrics                               - Prometheus metrics
  POST /api/v1/analyze                        - Trigger a pipeline run
  GET  /api/v1/recommendations                - List stored weeks
  GET  /api/v1/recommendations/latest         - Latest recommendation
  GET  /api/v1/recommendations/{weekId}       - One week
  GET  /api/v1/recommendations/{weekId}/diff  - Week-over-week diff
  GET  /ws                                    - Pipeline event stream

Example:
  quantfolio api
  quantfolio api --port 8086`,
	RunE: runAPIServer,
}

var apiPort string

// apiEndpoints is the startup listing; the Long help above stays the
// authoritative description.
var apiEndpoints = []string{
	"GET  /health",
	"GET  /metrics",
	"POST /api/v1/analyze",
	"GET  /api/v1/recommendations",
	"GET  /api/v1/recommendations/latest",
	"GET  /api/v1/recommendations/{weekId}",
	"GET  /api/v1/recommendations/{weekId}/diff",
	"GET  /ws",
}

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "listen port (defaults to PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantfolio API Server ===")

	// 1. Config, with the --port override applied before anything
	// reads it
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Logger and metrics
	log := logger.New(cfg)
	m := metrics.GetMetrics()

	// 3. Pipeline graph shared with the analyze command
	runner, st, cleanup, err := initRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer cleanup()

	// 4. Handlers, router, server
	hub := handlers.NewHub(log)
	defer hub.Close()

	router := api.NewRouter(
		handlers.NewRecommendationHandler(st, log),
		handlers.NewAnalyzeHandler(runner, cfg.Data.SnapshotCSV, hub, log),
		hub, m, log,
	)
	server := api.New(cfg, log, router)

	// 5. Serve until interrupted
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("API server exited")
		}
	}()

	fmt.Printf("\n✅ Listening on http://localhost:%s\n\n", cfg.Port)
	for _, ep := range apiEndpoints {
		fmt.Println("  " + ep)
	}
	fmt.Println("\nCtrl+C to stop")

	waitForInterrupt()
	log.Info("Interrupt received, draining requests")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("API server stopped")
	return nil
}
