package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/internal/contracts"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/pkg/config"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored recommendation weeks",
	RunE:  runHistory,
}

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [weekId|latest]",
	Short: "Print one stored weekly recommendation",
	Long: `Prints a stored weekly recommendation as a readable report.

Example:
  quantfolio show latest
  quantfolio show 2026-W34`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff [weekId|latest] [previousWeekId]",
	Short: "Compare a stored week against the one before it",
	Long: `Shows what changed between two stored weekly recommendations:
positions added and removed, weight moves, and regime shifts.
With one argument the previous stored week is used as the baseline.

Example:
  quantfolio diff latest
  quantfolio diff 2026-W34 2026-W30`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(diffCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

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
		fmt.Println("No recommendations stored yet")
		return nil
	}

	fmt.Printf("Stored weeks (%d, newest first):\n", len(weeks))
	for _, week := range weeks {
		fmt.Printf("  - %s\n", week)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	st, cleanup, err := initStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	var rec *contracts.Recommendation
	if args[0] == "latest" {
		rec, err = st.GetLatest(cmd.Context())
	} else {
		rec, err = st.GetByWeek(cmd.Context(), args[0])
	}
	if err != nil {
		return fmt.Errorf("load recommendation: %w", err)
	}

	printRecommendation(rec)
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	st, cleanup, err := initStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	var current *contracts.Recommendation
	if args[0] == "latest" {
		current, err = st.GetLatest(ctx)
	} else {
		current, err = st.GetByWeek(ctx, args[0])
	}
	if err != nil {
		return fmt.Errorf("load recommendation: %w", err)
	}

	var previous *contracts.Recommendation
	if len(args) == 2 {
		previous, err = st.GetByWeek(ctx, args[1])
		if err != nil {
			return fmt.Errorf("load baseline week: %w", err)
		}
	} else {
		// Newest stored week older than the current one. Week IDs zero
		// pad the week number, so string order is calendar order.
		weeks, err := st.ListWeeks(ctx)
		if err != nil {
			return fmt.Errorf("list weeks: %w", err)
		}
		for _, week := range weeks {
			if week < current.WeekID {
				previous, err = st.GetByWeek(ctx, week)
				if err != nil {
					return fmt.Errorf("load baseline week: %w", err)
				}
				break
			}
		}
	}

	printDiff(recommend.Compare(current, previous))
	return nil
}

func printDiff(diff contracts.RecommendationDiff) {
	if diff.PreviousWeek == "" {
		fmt.Printf("📊 %s is the oldest stored week, every position counts as new\n", diff.CurrentWeek)
	} else {
		fmt.Printf("📊 Changes from %s to %s\n", diff.PreviousWeek, diff.CurrentWeek)
	}

	if diff.RegimeChanged {
		fmt.Printf("⚠️  Market regime shifted: %s → %s\n", diff.PreviousCondition, diff.CurrentCondition)
	}
	fmt.Println()

	if len(diff.Added) == 0 && len(diff.Removed) == 0 && len(diff.Changes) == 0 {
		fmt.Println("No position changes")
		return
	}

	if len(diff.Added) > 0 {
		fmt.Println("Entered the portfolio:")
		for _, name := range diff.Added {
			fmt.Printf("  + %s\n", name)
		}
	}
	if len(diff.Removed) > 0 {
		fmt.Println("Left the portfolio:")
		for _, name := range diff.Removed {
			fmt.Printf("  - %s\n", name)
		}
	}
	if len(diff.Changes) > 0 {
		fmt.Println("Weight moves:")
		for _, change := range diff.Changes {
			fmt.Printf("  %-26s %5.1f%% → %5.1f%% (%+.1f)\n",
				truncate(change.Name, 26), change.Previous, change.Current, change.Delta)
		}
	}
}

func printRecommendation(rec *contracts.Recommendation) {
	fmt.Printf("📊 Weekly Recommendation: %s\n", rec.WeekID)
	fmt.Printf("Generated: %s (run %s)\n", rec.GeneratedAt.Format("2006-01-02 15:04"), rec.ID)
	if rec.StrategyHash != "" {
		fmt.Printf("Strategy: %.8s\n", rec.StrategyHash)
	}
	fmt.Println()

	fmt.Printf("Market Regime: %s\n", rec.MarketCondition)
	fmt.Printf("Universe: %d stocks, %d passed the gate\n", rec.UniverseSize, rec.PassedGate)
	fmt.Println()

	if rec.IsAllCash() {
		fmt.Println("Portfolio: 100% cash, no stock cleared the eligibility bar")
	} else {
		fmt.Printf("Portfolio (%d positions, %.1f%% equity, %.1f%% cash):\n",
			rec.Allocation.Count(),
			rec.Allocation.EquityPercent(),
			rec.Allocation.CashPercent)
		fmt.Printf("  %-3s %-26s %-12s %7s %7s %7s  %s\n",
			"#", "NAME", "NSE", "WEIGHT", "SCORE", "SAFETY", "LABEL")
		for i, p := range rec.Allocation.Positions {
			fmt.Printf("  %-3d %-26s %-12s %6.1f%% %7.1f %7.1f  %s\n",
				i+1, truncate(p.Name, 26), p.NSECode, p.Weight, p.Composite, p.Safety, p.Label)
		}
	}

	if len(rec.Allocation.SectorBreakdown) > 0 {
		fmt.Println("\nSector weights:")
		for _, sector := range sortedKeys(rec.Allocation.SectorBreakdown) {
			fmt.Printf("  %-20s %5.1f%%\n", sector, rec.Allocation.SectorBreakdown[sector])
		}
	}

	if len(rec.TopPicks) > 0 {
		fmt.Println("\nTop Picks:")
		for i, pick := range rec.TopPicks {
			fmt.Printf("  %d. %s (%s, %.1f)\n", i+1, pick.Name, pick.Label, pick.Composite)
			if len(pick.Strengths) > 0 {
				fmt.Printf("     + %s\n", strings.Join(pick.Strengths, "; "))
			}
			if len(pick.Risks) > 0 {
				fmt.Printf("     - %s\n", strings.Join(pick.Risks, "; "))
			}
		}
	}

	if len(rec.Watchlist) > 0 {
		fmt.Println("\nWatchlist:")
		for _, item := range rec.Watchlist {
			fmt.Printf("  - %s (%.1f, %s)\n", item.Name, item.Composite, item.Label)
		}
	}

	if len(rec.Exclusions) > 0 {
		fmt.Println("\nExclusions:")
		for _, reason := range sortedIntKeys(rec.Exclusions) {
			fmt.Printf("  %-22s %d\n", reason, rec.Exclusions[reason])
		}
	}

	if len(rec.Allocation.Warnings) > 0 {
		fmt.Println("\n⚠️  Warnings:")
		for _, warning := range rec.Allocation.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
