package contracts

import "time"

// Category identifies one of the six scoring dimensions.
type Category string

const (
	CategoryQuality     Category = "quality"
	CategoryGrowth      Category = "growth"
	CategoryValue       Category = "value"
	CategoryMomentum    Category = "momentum"
	CategoryStability   Category = "stability"
	CategoryPositioning Category = "positioning"
)

// Categories returns all scoring categories in canonical order.
// Iteration over this slice, never over maps, keeps run output deterministic.
func Categories() []Category {
	return []Category{
		CategoryQuality,
		CategoryGrowth,
		CategoryValue,
		CategoryMomentum,
		CategoryStability,
		CategoryPositioning,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MetricRecord is one raw metric observation written by the upstream loader.
// The engine only reads these; it never mutates raw rows.
type MetricRecord struct {
	Symbol     string    `json:"symbol"`
	Date       time.Time `json:"date"`
	Category   Category  `json:"category"`
	MetricName string    `json:"metric_name"`
	RawValue   float64   `json:"raw_value"`
	Source     string    `json:"source"` // loader table the row came from, may be empty
}

// FactorScore is the cross-sectional percentile score for one
// (symbol, date, category). Recomputed and overwritten each run.
type FactorScore struct {
	Symbol          string    `json:"symbol"`
	Date            time.Time `json:"date"`
	Category        Category  `json:"category"`
	PercentileScore float64   `json:"percentile_score"` // 0-100
	MetricCount     int       `json:"metric_count"`     // metrics that contributed, always > 0
	PipelineVersion string    `json:"pipeline_version"`
}

// CompositeScore is the weighted blend of the factor scores present for a
// symbol. Factors holds only present categories; WeightsUsed holds the
// effective weights after redistribution and sums to 1.0 over present factors.
type CompositeScore struct {
	Symbol          string               `json:"symbol"`
	Date            time.Time            `json:"date"`
	Score           float64              `json:"score"` // 0-100
	Factors         map[Category]float64 `json:"factors"`
	WeightsUsed     map[Category]float64 `json:"weights_used"`
	PipelineVersion string               `json:"pipeline_version"`
}

// PriceBar is one daily OHLCV bar, read-only input from the upstream loader.
type PriceBar struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// IndicatorSnapshot holds the technical indicators for one (symbol, date).
// Nil fields mean the indicator is undefined for the available history;
// a nil value is never persisted as 0.
type IndicatorSnapshot struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`

	SMA20  *float64 `json:"sma_20"`
	SMA50  *float64 `json:"sma_50"`
	SMA200 *float64 `json:"sma_200"`
	EMA12  *float64 `json:"ema_12"`
	EMA26  *float64 `json:"ema_26"`

	RSI14      *float64 `json:"rsi_14"`
	MACDLine   *float64 `json:"macd_line"`
	MACDSignal *float64 `json:"macd_signal"`
	MACDHist   *float64 `json:"macd_histogram"`
	ATR14      *float64 `json:"atr_14"`

	// ROC is the long-horizon rate of change in percent. ROCHorizon records
	// the horizon actually used so a substituted shorter horizon is
	// distinguishable from the full one.
	ROC        *float64 `json:"roc"`
	ROCHorizon int      `json:"roc_horizon"`

	PipelineVersion string `json:"pipeline_version"`
}

// SignalType is the discrete trading decision for a day.
type SignalType string

const (
	SignalBuy  SignalType = "Buy"
	SignalSell SignalType = "Sell"
	SignalNone SignalType = "None"
)

// MarketStage classifies the trend regime a symbol is in.
type MarketStage string

const (
	StageBasing    MarketStage = "basing"
	StageUptrend   MarketStage = "uptrend"
	StageTopping   MarketStage = "topping"
	StageDowntrend MarketStage = "downtrend"
	StageUnknown   MarketStage = "unknown"
)

// Signal is the daily trading signal with entry/exit levels and risk.
// Strength and QualityScore are nil whenever Type is SignalNone: zero is a
// valid strength for a live signal and must stay distinguishable from
// "no signal".
type Signal struct {
	Symbol string     `json:"symbol"`
	Date   time.Time  `json:"date"`
	Type   SignalType `json:"signal_type"`

	BuyLevel    *float64 `json:"buy_level"`
	StopLevel   *float64 `json:"stop_level"`
	TargetLevel *float64 `json:"target_level"`

	// RiskPct is set only when BuyLevel > 0 and StopLevel is present.
	RiskPct *float64 `json:"risk_pct"`

	Strength     *float64 `json:"strength"`
	QualityScore *float64 `json:"quality_score"`

	Stage           MarketStage `json:"market_stage"`
	PipelineVersion string      `json:"pipeline_version"`
}

// IsActionable reports whether the signal is a Buy or Sell.
func (s *Signal) IsActionable() bool {
	return s.Type == SignalBuy || s.Type == SignalSell
}

// RunStatus is the terminal state of a batch run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// RunRecord is one row in the pipeline run ledger, written after every batch.
type RunRecord struct {
	RunID           string        `json:"run_id"`
	Date            time.Time     `json:"date"`
	PipelineVersion string        `json:"pipeline_version"`
	ConfigHash      string        `json:"config_hash"`
	Status          RunStatus     `json:"status"`
	SymbolsTotal    int           `json:"symbols_total"`
	SymbolsFailed   int           `json:"symbols_failed"`
	FactorRows      int           `json:"factor_rows"`
	CompositeRows   int           `json:"composite_rows"`
	SignalRows      int           `json:"signal_rows"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	Error           string        `json:"error,omitempty"`
}

// Float64Ptr returns a pointer to v. Used when building nullable fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
