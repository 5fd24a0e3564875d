package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/niveshquant/quantfolio/internal/strategy"
	"github.com/niveshquant/quantfolio/pkg/config"
)

// strategyCmd represents the strategy command
var strategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Inspect strategy files",
}

// strategyCheckCmd validates a strategy file without running anything
var strategyCheckCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Validate a strategy file and print its fingerprint",
	Long: `Parses a strategy YAML file, validates it, and prints its meta,
advisory warnings and the hash the weekly report will carry.

With no argument the configured STRATEGY_FILE is checked; with neither,
the built-in defaults.

Example:
  quantfolio strategy check strategy.yaml
  quantfolio strategy check`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrategyCheck,
}

func init() {
	rootCmd.AddCommand(strategyCmd)
	strategyCmd.AddCommand(strategyCheckCmd)
}

func runStrategyCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Data.StrategyFile
	}

	var strat *strategy.Config
	if path == "" {
		fmt.Println("No strategy file configured, checking built-in defaults")
		strat = strategy.Default()
	} else {
		fmt.Printf("Checking strategy file: %s\n", path)
		loaded, _, err := strategy.Load(path)
		if err != nil {
			fmt.Printf("\n❌ Strategy invalid\n")
			return err
		}
		strat = loaded
	}

	hash, err := strategy.Hash(strat)
	if err != nil {
		return fmt.Errorf("hash strategy: %w", err)
	}

	fmt.Println("\n✅ Strategy valid")
	fmt.Println()
	fmt.Printf("Strategy ID: %s\n", strat.Meta.StrategyID)
	fmt.Printf("Version: %s\n", strat.Meta.Version)
	if strat.Meta.Notes != "" {
		fmt.Printf("Notes: %s\n", strat.Meta.Notes)
	}
	if len(strat.Sectors) > 0 {
		fmt.Printf("Sector overrides: %d\n", len(strat.Sectors))
	}
	fmt.Printf("Hash: %s\n", hash)

	warnings := strategy.Warn(strat)
	if len(warnings) > 0 {
		fmt.Println("\n⚠️  Advisories:")
		for _, w := range warnings {
			fmt.Printf("  [%s] %s\n", w.Code, w.Message)
		}
	}

	return nil
}
