package indicators

import (
	"fmt"
	"math"
	"time"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

// Config controls indicator windows and the numeric storage policy.
type Config struct {
	SMAPeriods []int // e.g. 20, 50, 200
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	ATRPeriod  int

	// ROCHorizons is the fallback order for the long-horizon rate of change,
	// strictly descending (e.g. 252, 120). The horizon actually used is
	// recorded on the snapshot.
	ROCHorizons []int

	// RatioCeiling caps unbounded ratio values before storage.
	RatioCeiling float64
}

// Engine computes the IndicatorSnapshot for one symbol from its ordered
// bar history. Indicators without enough history stay nil; they are never
// defaulted.
type Engine struct {
	cfg     Config
	version string
	logger  *logger.Logger
}

// New creates an indicator engine.
func New(cfg Config, version string, log *logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		version: version,
		logger:  log,
	}
}

// Compute builds the snapshot for the bar history's final date. bars must be
// in ascending date order and end at the evaluation date.
func (e *Engine) Compute(symbol string, date time.Time, bars []contracts.PriceBar) (*contracts.IndicatorSnapshot, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("symbol %s: no bars: %w", symbol, contracts.ErrMissingData)
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		if math.IsNaN(bar.Close) || math.IsInf(bar.Close, 0) {
			return nil, fmt.Errorf("symbol %s: non-finite close at %s: %w",
				symbol, bar.Date.Format("2006-01-02"), contracts.ErrNumericDegenerate)
		}
		closes[i] = bar.Close
	}

	snap := &contracts.IndicatorSnapshot{
		Symbol:          symbol,
		Date:            date,
		PipelineVersion: e.version,
	}

	for _, period := range e.cfg.SMAPeriods {
		v, ok := sma(closes, period)
		if !ok {
			continue
		}
		switch period {
		case 20:
			snap.SMA20 = contracts.Float64Ptr(v)
		case 50:
			snap.SMA50 = contracts.Float64Ptr(v)
		case 200:
			snap.SMA200 = contracts.Float64Ptr(v)
		}
	}

	if series := emaSeries(closes, e.cfg.MACDFast); series != nil {
		snap.EMA12 = contracts.Float64Ptr(series[len(series)-1])
	}
	if series := emaSeries(closes, e.cfg.MACDSlow); series != nil {
		snap.EMA26 = contracts.Float64Ptr(series[len(series)-1])
	}

	if v, ok := rsi(closes, e.cfg.RSIPeriod); ok {
		snap.RSI14 = contracts.Float64Ptr(v)
	}

	if line, signal, hist, ok := e.macd(closes); ok {
		snap.MACDLine = contracts.Float64Ptr(line)
		snap.MACDSignal = contracts.Float64Ptr(signal)
		snap.MACDHist = contracts.Float64Ptr(hist)
	}

	if v, ok := atr(bars, e.cfg.ATRPeriod); ok {
		snap.ATR14 = contracts.Float64Ptr(v)
	}

	if roc, horizon, ok := e.rateOfChange(closes); ok {
		snap.ROC = contracts.Float64Ptr(roc)
		snap.ROCHorizon = horizon
	}

	if err := checkFinite(snap); err != nil {
		return nil, fmt.Errorf("symbol %s: %w", symbol, err)
	}

	return snap, nil
}

// macd computes the MACD line, signal line, and histogram for the final bar.
// Both the 12/26 lines and the 9-period signal use exponential smoothing;
// ok is false until slow+signal-1 closes exist (the signal line needs a
// seeded EMA over the MACD series itself).
func (e *Engine) macd(closes []float64) (line, signal, hist float64, ok bool) {
	minBars := e.cfg.MACDSlow + e.cfg.MACDSignal - 1
	if len(closes) < minBars {
		return 0, 0, 0, false
	}

	fast := emaSeries(closes, e.cfg.MACDFast)
	slow := emaSeries(closes, e.cfg.MACDSlow)

	macdVals := make([]float64, 0, len(closes)-e.cfg.MACDSlow+1)
	for i := e.cfg.MACDSlow - 1; i < len(closes); i++ {
		macdVals = append(macdVals, fast[i]-slow[i])
	}

	signalSeries := emaSeries(macdVals, e.cfg.MACDSignal)
	if signalSeries == nil {
		return 0, 0, 0, false
	}

	line = macdVals[len(macdVals)-1]
	signal = signalSeries[len(signalSeries)-1]
	return line, signal, line - signal, true
}

// rateOfChange returns the percent change over the longest configured
// horizon the history supports, falling back to shorter horizons for
// thin-history symbols. The horizon used is returned so downstream
// consumers can tell a substituted value from a full one.
func (e *Engine) rateOfChange(closes []float64) (float64, int, bool) {
	last := closes[len(closes)-1]

	for _, horizon := range e.cfg.ROCHorizons {
		if len(closes) < horizon+1 {
			continue
		}
		base := closes[len(closes)-1-horizon]
		if base <= 0 {
			continue
		}
		roc := (last/base - 1) * 100
		if roc > e.cfg.RatioCeiling {
			roc = e.cfg.RatioCeiling
		}
		if roc < -e.cfg.RatioCeiling {
			roc = -e.cfg.RatioCeiling
		}
		return roc, horizon, true
	}

	return 0, 0, false
}

// checkFinite rejects any snapshot carrying NaN or Inf. Degenerate values
// must surface as errors, never as finite-looking rows in storage.
func checkFinite(snap *contracts.IndicatorSnapshot) error {
	fields := []*float64{
		snap.SMA20, snap.SMA50, snap.SMA200,
		snap.EMA12, snap.EMA26,
		snap.RSI14,
		snap.MACDLine, snap.MACDSignal, snap.MACDHist,
		snap.ATR14, snap.ROC,
	}
	for _, f := range fields {
		if f == nil {
			continue
		}
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			return contracts.ErrNumericDegenerate
		}
	}
	return nil
}
