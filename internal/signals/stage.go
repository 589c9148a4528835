package signals

import (
	"github.com/markcheno/go-talib"

	"github.com/argie33/algo-sub009/internal/contracts"
)

const (
	slopeLookback = 5

	// Bollinger bandwidth below this fraction of the middle band marks a
	// volatility contraction, the defining trait of a base.
	basingBandwidthMax = 0.06
	bbandsPeriod       = 20
)

// classifyStage buckets a symbol's trend regime from the relationship
// between price, its moving averages, and the medium average's slope.
// Symbols without enough history stay unknown rather than guessing.
func classifyStage(snap *contracts.IndicatorSnapshot, bars []contracts.PriceBar) contracts.MarketStage {
	if snap.SMA20 == nil || snap.SMA50 == nil || len(bars) == 0 {
		return contracts.StageUnknown
	}

	closes := closesOf(bars)
	lastClose := closes[len(closes)-1]
	sma20, sma50 := *snap.SMA20, *snap.SMA50

	slope, ok := smaSlope(closes, 50, slopeLookback)
	if !ok {
		return contracts.StageUnknown
	}

	switch {
	case lastClose > sma50 && sma20 > sma50 && slope > 0:
		return contracts.StageUptrend
	case lastClose < sma50 && sma20 < sma50 && slope < 0:
		return contracts.StageDowntrend
	case lastClose > sma50 && sma20 < sma50:
		// Price still elevated but the short average has rolled under the
		// medium one: distribution.
		return contracts.StageTopping
	}

	if isBasing(closes) {
		return contracts.StageBasing
	}
	return contracts.StageUnknown
}

// isBasing detects a volatility contraction via Bollinger bandwidth.
func isBasing(closes []float64) bool {
	if len(closes) < bbandsPeriod {
		return false
	}

	upper, middle, lower := talib.BBands(closes, bbandsPeriod, 2.0, 2.0, talib.SMA)
	last := len(closes) - 1
	if middle[last] <= 0 {
		return false
	}
	bandwidth := (upper[last] - lower[last]) / middle[last]
	return bandwidth < basingBandwidthMax
}
