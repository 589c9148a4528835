package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "scores",
	Short: "Daily equity factor scoring and signal engine",
	Long: `Computes daily multi-factor composite scores and technical trading
signals for the equity universe.

Pipeline stages:
  factors    cross-sectional percentile scores per category
  composite  weighted blend with redistribution over present factors
  technical  indicator snapshots and Buy/Sell/None signals

Examples:
  go run ./cmd/scores run --date 2026-08-28
  go run ./cmd/scores factors --date 2026-08-28
  go run ./cmd/scores scheduler start
  go run ./cmd/scores status`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML (default from STRATEGY_CONFIG, else built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
