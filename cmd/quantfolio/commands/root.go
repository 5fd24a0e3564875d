package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quantfolio",
	Short: "Quantfolio - weekly India equity portfolio engine",
	Long: `Quantfolio turns a weekly fundamentals snapshot into a ranked,
sized model portfolio: quality gate, five-layer scoring, regime-aware
blending, and allocation with safety and sector caps.

Examples:
  quantfolio analyze --snapshot data/snapshot.csv
  quantfolio analyze --dry-run
  quantfolio api
  quantfolio scheduler start
  quantfolio history
  quantfolio strategy check strategy.yaml`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := godotenv.Overload(configFile); err != nil {
				return fmt.Errorf("load env file %s: %w", configFile, err)
			}
		}
		if verbose {
			os.Setenv("LOG_LEVEL", "debug")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env file overriding the environment (default .env discovery)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
