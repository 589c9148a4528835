package indicators

import (
	"math"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// rsi computes the Wilder-smoothed Relative Strength Index over period.
// ok is false until period+1 closes exist.
//
// Degenerate cases are defined, not NaN: zero average loss means RSI 100,
// zero average gain means RSI 0.
func rsi(closes []float64, period int) (float64, bool) {
	if period < 1 || len(closes) < period+1 {
		return 0, false
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remaining bars.
	n := float64(period)
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(n-1) + gain) / n
		avgLoss = (avgLoss*(n-1) + loss) / n
	}

	if avgLoss == 0 {
		return 100, true
	}
	if avgGain == 0 {
		return 0, true
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

// atr computes the Wilder-smoothed Average True Range over period.
// ok is false until period+1 bars exist.
func atr(bars []contracts.PriceBar, period int) (float64, bool) {
	if period < 1 || len(bars) < period+1 {
		return 0, false
	}

	trs := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs = append(trs, trueRange(bars[i], bars[i-1].Close))
	}

	avg := 0.0
	for _, tr := range trs[:period] {
		avg += tr
	}
	avg /= float64(period)

	n := float64(period)
	for _, tr := range trs[period:] {
		avg = (avg*(n-1) + tr) / n
	}

	return avg, true
}

// trueRange is the greatest of high-low, |high-prevClose|, |low-prevClose|.
func trueRange(bar contracts.PriceBar, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if hc := math.Abs(bar.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(bar.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}
