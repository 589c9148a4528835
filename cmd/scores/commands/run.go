package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argie33/algo-sub009/internal/contracts"
)

var runDate string

// runCmd executes the full daily pipeline for one date.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full scoring pipeline for a date",
	Long: `Runs all three stages for the date: cross-sectional factor scores,
composite scores, then indicator snapshots and signals.

Reruns are safe: every derived row is upserted by (symbol, date).

Example:
  go run ./cmd/scores run --date 2026-08-28`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDate, "date", "", "trading date YYYY-MM-DD (default today)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	date, err := parseDate(runDate)
	if err != nil {
		return err
	}

	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	record, err := a.runner.Run(context.Background(), date)
	if err != nil {
		return fmt.Errorf("batch run: %w", err)
	}

	printRecord(record)
	return nil
}

func printRecord(record *contracts.RunRecord) {
	fmt.Printf("Run %s (%s)\n", record.RunID, record.Status)
	fmt.Printf("  Date:       %s\n", record.Date.Format("2006-01-02"))
	fmt.Printf("  Version:    %s (config %s)\n", record.PipelineVersion, shortHash(record.ConfigHash))
	fmt.Printf("  Symbols:    %d (%d failed)\n", record.SymbolsTotal, record.SymbolsFailed)
	fmt.Printf("  Factors:    %d rows\n", record.FactorRows)
	fmt.Printf("  Composites: %d rows\n", record.CompositeRows)
	fmt.Printf("  Signals:    %d rows\n", record.SignalRows)
	fmt.Printf("  Duration:   %s\n", record.Duration)
	if record.Error != "" {
		fmt.Printf("  Error:      %s\n", record.Error)
	}
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
