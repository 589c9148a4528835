package signals

import "github.com/argie33/algo-sub009/internal/contracts"

func closesOf(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func highsOf(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

func lowsOf(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

func volumesOf(bars []contracts.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// trailingMean averages the last period values; ok is false when fewer exist.
func trailingMean(values []float64, period int) (float64, bool) {
	if period < 1 || len(values) < period {
		return 0, false
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// smaSlope is the change in the period-SMA over the last lookback bars.
func smaSlope(closes []float64, period, lookback int) (float64, bool) {
	if len(closes) < period+lookback {
		return 0, false
	}
	now, _ := trailingMean(closes, period)
	then, _ := trailingMean(closes[:len(closes)-lookback], period)
	return now - then, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
