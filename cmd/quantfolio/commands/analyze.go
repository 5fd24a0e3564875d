package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/internal/pipeline"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the weekly analysis pipeline",
	Long: `Runs the full weekly pipeline against a fundamentals snapshot:
ingest, regime detection, quality gate, five-layer scoring, ranking,
allocation, enrichment and persistence.

Example:
  quantfolio analyze
  quantfolio analyze --snapshot data/snapshot.csv --date 2026-08-21
  quantfolio analyze --dry-run`,
	RunE: runAnalyze,
}

var (
	analyzeSnapshot string
	analyzeDate     string
	analyzeDryRun   bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeSnapshot, "snapshot", "", "fundamentals CSV (defaults to SNAPSHOT_CSV)")
	analyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "run date as YYYY-MM-DD (defaults to today)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "run without persisting the result")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Quantfolio Weekly Analysis ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Build pipeline
	runner, _, cleanup, err := initRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer cleanup()

	// 4. Resolve run date and snapshot
	runDate := time.Now()
	if analyzeDate != "" {
		runDate, err = time.Parse("2006-01-02", analyzeDate)
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", analyzeDate)
		}
	}

	snapshot := analyzeSnapshot
	if snapshot == "" {
		snapshot = cfg.Data.SnapshotCSV
	}

	runConfig := pipeline.RunConfig{
		SnapshotPath: snapshot,
		Date:         runDate,
		RunID:        pipeline.GenerateRunID(),
		DryRun:       analyzeDryRun,
	}

	fmt.Printf("📅 Run date: %s (week %s)\n", runDate.Format("2006-01-02"), recommend.WeekID(runDate))
	fmt.Printf("📄 Snapshot: %s\n", snapshot)
	if analyzeDryRun {
		fmt.Println("🔧 Dry run: result will not be persisted")
	}
	fmt.Printf("🚀 Starting pipeline run: %s\n", runConfig.RunID)

	// 5. Run
	result, err := runner.Run(cmd.Context(), runConfig)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	printRunResult(result)
	return nil
}

func printRunResult(result *pipeline.RunResult) {
	fmt.Println("\n✅ Pipeline Run Completed")
	fmt.Println()

	// Summary
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Week: %s\n", result.WeekID)
	fmt.Printf("Duration: %.2fs\n", result.Duration.Seconds())
	fmt.Println()

	// Stages
	fmt.Println("Completed Stages:")
	for _, stage := range result.CompletedStages {
		fmt.Printf("  ✅ %s\n", stage)
	}
	fmt.Println()

	// Results
	fmt.Printf("Market Regime: %s (3m avg %+.1f%%, breadth %.0f%%)\n",
		result.Breadth.Condition,
		result.Breadth.AvgReturn3M,
		result.Breadth.PositiveRatio*100)

	if result.Coverage != nil {
		fmt.Printf("Universe: %d stocks loaded, %d skipped\n",
			result.Coverage.Loaded, result.Coverage.Skipped)
	}

	rec := result.Recommendation
	if rec != nil {
		fmt.Printf("Passed Gate: %d of %d\n", rec.PassedGate, rec.UniverseSize)
		fmt.Printf("Portfolio: %d positions, %.1f%% equity, %.1f%% cash\n",
			rec.Allocation.Count(),
			rec.Allocation.EquityPercent(),
			rec.Allocation.CashPercent)
		if !rec.IsAllCash() {
			top := rec.Allocation.Positions[0]
			fmt.Printf("Top Holding: %s (%.1f%%)\n", top.Name, top.Weight)
		}
		if rec.Enrichment != nil && len(rec.Enrichment.QualitativeScores) > 0 {
			fmt.Printf("Qualitative: %d names scored\n", len(rec.Enrichment.QualitativeScores))
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println("\n⚠️  Warnings:")
		for _, warning := range result.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}
}
