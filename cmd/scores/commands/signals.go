package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var signalsDate string

// signalsCmd reruns only the symbol-local technical stage.
var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Run only the indicator and signal stage for a date",
	Long: `Recomputes indicator snapshots and trading signals for the date,
leaving factor and composite scores untouched. Useful after a price
history correction.

Example:
  go run ./cmd/scores signals --date 2026-08-28`,
	RunE: runSignals,
}

func init() {
	rootCmd.AddCommand(signalsCmd)
	signalsCmd.Flags().StringVar(&signalsDate, "date", "", "trading date YYYY-MM-DD (default today)")
}

func runSignals(cmd *cobra.Command, args []string) error {
	date, err := parseDate(signalsDate)
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	record, err := a.runner.RunTechnical(context.Background(), date)
	if err != nil {
		return fmt.Errorf("technical stage: %w", err)
	}

	fmt.Printf("Technical stage for %s: %d symbols (%d failed), %d signal rows in %s\n",
		date.Format("2006-01-02"), record.SymbolsTotal, record.SymbolsFailed,
		record.SignalRows, record.Duration)
	return nil
}
