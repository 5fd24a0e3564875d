package commands

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and store status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantfolio Status ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	fmt.Printf("Build: %s\n", getGitSHA())
	fmt.Printf("Environment: %s\n", cfg.Env)
	fmt.Println()

	fmt.Println("Configuration:")
	fmt.Printf("  Storage: %s", cfg.Storage.Backend)
	if cfg.Storage.Backend == "json" {
		fmt.Printf(" (%s)", cfg.Storage.Dir)
	}
	fmt.Println()
	fmt.Printf("  Snapshot: %s\n", cfg.Data.SnapshotCSV)
	strategyFile := cfg.Data.StrategyFile
	if strategyFile == "" {
		strategyFile = "built-in defaults"
	}
	fmt.Printf("  Strategy: %s\n", strategyFile)
	fmt.Printf("  Enrichment: %s\n", cfg.Enrichment.Provider)
	fmt.Printf("  Redis cache: %v\n", cfg.Redis.Enabled)
	fmt.Printf("  Schedule: %s (enabled: %v)\n", cfg.Scheduler.AnalysisSchedule, cfg.Scheduler.Enabled)
	fmt.Println()

	st, cleanup, err := initStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	weeks, err := st.ListWeeks(cmd.Context())
	if err != nil {
		return fmt.Errorf("list weeks: %w", err)
	}

	if len(weeks) == 0 {
		fmt.Println("Store: empty, no runs recorded")
		return nil
	}

	fmt.Printf("Store: %d weeks, latest %s\n", len(weeks), weeks[0])

	rec, err := st.GetByWeek(cmd.Context(), weeks[0])
	if err != nil {
		return fmt.Errorf("load latest week: %w", err)
	}
	fmt.Printf("Latest: %d positions, %.1f%% cash, regime %s\n",
		rec.Allocation.Count(), rec.Allocation.CashPercent, rec.MarketCondition)

	return nil
}

func getGitSHA() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
