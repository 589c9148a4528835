package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// runTechnicalStage computes indicator snapshots and signals for every
// symbol with a bar on the date. The work is symbol-local, so it fans out
// across a bounded worker pool.
//
// A per-symbol compute failure is logged and counted, never fatal: the
// symbol simply has no row for the date. Store failures abort the run.
func (r *Runner) runTechnicalStage(ctx context.Context, date time.Time, record *contracts.RunRecord) error {
	started := time.Now()
	defer r.observeStage(componentTechnical, started)

	symbols, err := r.deps.Prices.ListSymbols(ctx, date)
	if err != nil {
		return fmt.Errorf("list symbols: %w", err)
	}

	record.SymbolsTotal = len(symbols)
	if r.deps.Recorder != nil {
		r.deps.Recorder.LastRunSymbols(len(symbols))
	}
	if len(symbols) == 0 {
		r.logger.WithField("date", date.Format("2006-01-02")).Warn("no symbols with bars on date")
		return nil
	}

	workers := r.batchCfg.Workers
	if workers < 1 {
		workers = 1
	}

	var failed, signalRows atomic.Int64

	jobs := make(chan string)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for symbol := range jobs {
				wroteSignal, err := r.processSymbol(gctx, date, symbol)
				if err != nil {
					if gctx.Err() != nil {
						return err
					}
					var symErr *contracts.SymbolComputeError
					if errors.As(err, &symErr) {
						failed.Add(1)
						if r.deps.Recorder != nil {
							r.deps.Recorder.SymbolFailed(componentTechnical)
						}
						r.logger.WithError(err).WithFields(map[string]interface{}{
							"symbol": symbol,
							"date":   date.Format("2006-01-02"),
						}).Warn("symbol skipped")
						continue
					}
					return err
				}
				if wroteSignal {
					signalRows.Add(1)
				}
				if r.deps.Recorder != nil {
					r.deps.Recorder.SymbolProcessed(componentTechnical)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	record.SymbolsFailed = int(failed.Load())
	record.SignalRows = int(signalRows.Load())

	r.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"symbols": len(symbols),
		"failed":  record.SymbolsFailed,
		"signals": record.SignalRows,
	}).Info("technical stage finished")
	return nil
}

// processSymbol runs the indicator engine and signal generator for one
// symbol under the per-symbol timeout and persists both outputs atomically.
// Compute failures come back as SymbolComputeError so the caller can skip;
// anything else is an infrastructure failure.
func (r *Runner) processSymbol(ctx context.Context, date time.Time, symbol string) (bool, error) {
	symCtx := ctx
	if r.batchCfg.SymbolTimeout > 0 {
		var cancel context.CancelFunc
		symCtx, cancel = context.WithTimeout(ctx, r.batchCfg.SymbolTimeout)
		defer cancel()
	}

	bars, err := r.deps.Prices.GetHistory(symCtx, symbol, date, historyBars)
	if err != nil {
		return false, fmt.Errorf("history for %s: %w", symbol, err)
	}

	snapshot, err := r.engine.Compute(symbol, date, bars)
	if err != nil {
		return false, contracts.NewSymbolComputeError(componentTechnical, symbol, date, err)
	}

	signal, err := r.generator.Generate(symbol, date, snapshot, bars)
	if err != nil {
		return false, contracts.NewSymbolComputeError(componentTechnical, symbol, date, err)
	}

	if err := r.pace(symCtx); err != nil {
		return false, err
	}
	if err := r.deps.SymbolDays.UpsertSymbolDay(symCtx, snapshot, signal); err != nil {
		return false, fmt.Errorf("upsert symbol day for %s: %w", symbol, err)
	}

	return signal != nil, nil
}
