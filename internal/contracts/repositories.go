package contracts

import (
	"context"
	"time"
)

// MetricReader reads raw metric snapshots written by the upstream loader.
type MetricReader interface {
	// GetCategoryMetrics returns every raw metric record for one category
	// across the whole universe on a date.
	GetCategoryMetrics(ctx context.Context, date time.Time, category Category) ([]MetricRecord, error)

	// CategoryLoaded reports whether the loader has stamped the category's
	// universe snapshot for the date as complete. Percentile ranking must not
	// run against a partially loaded universe.
	CategoryLoaded(ctx context.Context, date time.Time, category Category) (bool, error)
}

// PriceReader reads daily OHLCV history written by the upstream loader.
type PriceReader interface {
	// GetHistory returns up to maxBars bars for symbol ending at date,
	// in ascending date order.
	GetHistory(ctx context.Context, symbol string, date time.Time, maxBars int) ([]PriceBar, error)

	// ListSymbols returns every symbol with a bar on the date.
	ListSymbols(ctx context.Context, date time.Time) ([]string, error)
}

// FactorScoreWriter persists factor scores keyed by (symbol, date, category).
type FactorScoreWriter interface {
	UpsertFactorScores(ctx context.Context, scores []FactorScore) error
}

// CompositeScoreWriter persists composite scores keyed by (symbol, date).
type CompositeScoreWriter interface {
	UpsertCompositeScores(ctx context.Context, scores []CompositeScore) error
}

// SymbolDayWriter persists the symbol-local outputs for one (symbol, date)
// atomically: snapshot and signal commit together or not at all. A nil signal
// means the symbol produced no signal row for the date.
type SymbolDayWriter interface {
	UpsertSymbolDay(ctx context.Context, snapshot *IndicatorSnapshot, signal *Signal) error
}

// RunLedger records batch runs for audit and the status command.
type RunLedger interface {
	RecordRun(ctx context.Context, run *RunRecord) error
	LatestRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
