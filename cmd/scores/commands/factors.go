package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var factorsDate string

// factorsCmd reruns only the cross-sectional stages.
var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Run only the factor and composite stages for a date",
	Long: `Recomputes cross-sectional factor scores and composite scores for
the date, leaving indicator snapshots and signals untouched. Useful after a
late metric backfill.

Example:
  go run ./cmd/scores factors --date 2026-08-28`,
	RunE: runFactors,
}

func init() {
	rootCmd.AddCommand(factorsCmd)
	factorsCmd.Flags().StringVar(&factorsDate, "date", "", "trading date YYYY-MM-DD (default today)")
}

func runFactors(cmd *cobra.Command, args []string) error {
	date, err := parseDate(factorsDate)
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	record, err := a.runner.RunFactors(context.Background(), date)
	if err != nil {
		return fmt.Errorf("factor stage: %w", err)
	}

	fmt.Printf("Factor stage for %s: %d factor rows, %d composite rows in %s\n",
		date.Format("2006-01-02"), record.FactorRows, record.CompositeRows, record.Duration)
	return nil
}
