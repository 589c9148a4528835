package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/internal/store"
)

var statusLimit int

// statusCmd shows the most recent batch runs from the ledger.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent batch runs",
	Long: `Prints the cached outcome of the latest batch when Redis has one,
then the most recent runs from the pipeline run ledger, newest first.

Example:
  go run ./cmd/scores status --limit 5`,
	RunE: showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "number of runs to show")
}

func showStatus(cmd *cobra.Command, args []string) error {
	a, err := initApp()
	if err != nil {
		return err
	}
	defer a.close()

	printCachedLatest(a)

	ledger := store.NewRunRepository(a.db.Pool)
	runs, err := ledger.LatestRuns(context.Background(), statusLimit)
	if err != nil {
		return fmt.Errorf("read run ledger: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-10s  %s  symbols=%d failed=%d factors=%d composites=%d signals=%d  %s\n",
			run.Date.Format("2006-01-02"), run.Status, shortHash(run.ConfigHash),
			run.SymbolsTotal, run.SymbolsFailed, run.FactorRows, run.CompositeRows,
			run.SignalRows, run.Duration)
		if run.Error != "" {
			fmt.Printf("    error: %s\n", run.Error)
		}
	}
	return nil
}

// printCachedLatest shows the Redis-cached outcome of the most recent batch.
// Cache misses and decode problems fall through to the ledger silently; the
// cache is a fast path, not a source of record.
func printCachedLatest(a *app) {
	payload, ok, err := a.status.Latest(context.Background())
	if err != nil {
		a.log.WithError(err).Warn("read latest run cache")
		return
	}
	if !ok {
		return
	}

	var run contracts.RunRecord
	if err := json.Unmarshal(payload, &run); err != nil {
		a.log.WithError(err).Warn("decode latest run cache")
		return
	}

	fmt.Printf("Latest (cached): %s  %-10s  %s  symbols=%d failed=%d  %s\n\n",
		run.Date.Format("2006-01-02"), run.Status, shortHash(run.ConfigHash),
		run.SymbolsTotal, run.SymbolsFailed, run.Duration)
}
