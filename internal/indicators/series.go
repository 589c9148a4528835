package indicators

// sma returns the arithmetic mean of the trailing period values.
// ok is false until period values exist.
func sma(values []float64, period int) (float64, bool) {
	if period < 1 || len(values) < period {
		return 0, false
	}

	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period), true
}

// emaSeries returns the exponential moving average aligned to values.
// Entries before index period-1 are undefined (zero) — the EMA is seeded
// with the simple average of the first period values, then smoothed with
// k = 2/(period+1).
//
// MACD depends on this being a true EMA: substituting a simple average
// shifts crossover timing.
func emaSeries(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nil
	}

	out := make([]float64, len(values))

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	ema := seed / float64(period)
	out[period-1] = ema

	k := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		ema = values[i]*k + ema*(1-k)
		out[i] = ema
	}
	return out
}

// smaSeries returns the rolling simple average aligned to values, defined
// from index period-1. Exists so tests can demonstrate the EMA/SMA
// divergence on the MACD path; the engine itself never feeds MACD from it.
func smaSeries(values []float64, period int) []float64 {
	if period < 1 || len(values) < period {
		return nil
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}
