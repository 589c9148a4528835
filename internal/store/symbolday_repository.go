package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// SymbolDayRepository persists the symbol-local outputs for one
// (symbol, date) in a single transaction: the indicator snapshot and the
// signal commit together or not at all, so a reader never sees a snapshot
// whose signal is from a previous run.
type SymbolDayRepository struct {
	pool *pgxpool.Pool
}

// NewSymbolDayRepository creates a new symbol-day repository.
func NewSymbolDayRepository(pool *pgxpool.Pool) *SymbolDayRepository {
	return &SymbolDayRepository{pool: pool}
}

// UpsertSymbolDay writes the snapshot and signal atomically. A nil signal
// removes any stale signal row for the pair, which keeps reruns idempotent
// when a symbol drops out of signal generation.
func (r *SymbolDayRepository) UpsertSymbolDay(ctx context.Context, snapshot *contracts.IndicatorSnapshot, signal *contracts.Signal) error {
	if snapshot == nil {
		return fmt.Errorf("upsert symbol day: nil snapshot")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	snapshotQuery := `
		INSERT INTO scores.indicator_snapshots
			(symbol, snapshot_date, sma_20, sma_50, sma_200, ema_12, ema_26,
			 rsi_14, macd_line, macd_signal, macd_histogram, atr_14,
			 roc, roc_horizon, pipeline_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (symbol, snapshot_date) DO UPDATE SET
			sma_20 = EXCLUDED.sma_20,
			sma_50 = EXCLUDED.sma_50,
			sma_200 = EXCLUDED.sma_200,
			ema_12 = EXCLUDED.ema_12,
			ema_26 = EXCLUDED.ema_26,
			rsi_14 = EXCLUDED.rsi_14,
			macd_line = EXCLUDED.macd_line,
			macd_signal = EXCLUDED.macd_signal,
			macd_histogram = EXCLUDED.macd_histogram,
			atr_14 = EXCLUDED.atr_14,
			roc = EXCLUDED.roc,
			roc_horizon = EXCLUDED.roc_horizon,
			pipeline_version = EXCLUDED.pipeline_version,
			updated_at = NOW()
	`

	_, err = tx.Exec(ctx, snapshotQuery,
		snapshot.Symbol, snapshot.Date,
		snapshot.SMA20, snapshot.SMA50, snapshot.SMA200,
		snapshot.EMA12, snapshot.EMA26,
		snapshot.RSI14, snapshot.MACDLine, snapshot.MACDSignal, snapshot.MACDHist,
		snapshot.ATR14, snapshot.ROC, snapshot.ROCHorizon,
		snapshot.PipelineVersion,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot for %s: %w", snapshot.Symbol, err)
	}

	if signal == nil {
		deleteQuery := `DELETE FROM scores.signals WHERE symbol = $1 AND signal_date = $2`
		if _, err := tx.Exec(ctx, deleteQuery, snapshot.Symbol, snapshot.Date); err != nil {
			return fmt.Errorf("clear signal for %s: %w", snapshot.Symbol, err)
		}
		return tx.Commit(ctx)
	}

	signalQuery := `
		INSERT INTO scores.signals
			(symbol, signal_date, signal_type, buy_level, stop_level, target_level,
			 risk_pct, strength, quality_score, market_stage, pipeline_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (symbol, signal_date) DO UPDATE SET
			signal_type = EXCLUDED.signal_type,
			buy_level = EXCLUDED.buy_level,
			stop_level = EXCLUDED.stop_level,
			target_level = EXCLUDED.target_level,
			risk_pct = EXCLUDED.risk_pct,
			strength = EXCLUDED.strength,
			quality_score = EXCLUDED.quality_score,
			market_stage = EXCLUDED.market_stage,
			pipeline_version = EXCLUDED.pipeline_version,
			updated_at = NOW()
	`

	_, err = tx.Exec(ctx, signalQuery,
		signal.Symbol, signal.Date, string(signal.Type),
		signal.BuyLevel, signal.StopLevel, signal.TargetLevel,
		signal.RiskPct, signal.Strength, signal.QualityScore,
		string(signal.Stage), signal.PipelineVersion,
	)
	if err != nil {
		return fmt.Errorf("upsert signal for %s: %w", signal.Symbol, err)
	}

	return tx.Commit(ctx)
}
