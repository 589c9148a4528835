package signals

import (
	"github.com/markcheno/go-talib"

	"github.com/argie33/algo-sub009/internal/contracts"
)

const (
	stochFastK  = 14
	stochSlow   = 3
	obvLookback = 20
)

// strength scores how strongly the tape confirms an actionable signal,
// 0-100, from four components: MACD histogram alignment (ATR-relative),
// RSI zone, stochastic crossover direction, and on-balance-volume trend.
// Components the history cannot support are left out of the weighted mean
// instead of counting as zero.
//
// The second return is a quality score: the fraction of evaluable
// confirmation checks that agree with the signal direction.
func (g *Generator) strength(typ contracts.SignalType, snap *contracts.IndicatorSnapshot, bars []contracts.PriceBar) (float64, float64) {
	dir := 1.0
	if typ == contracts.SignalSell {
		dir = -1
	}

	var score, weightSum float64
	checks, agreed := 0, 0

	add := func(weight, component float64, agrees bool) {
		score += weight * component
		weightSum += weight
		checks++
		if agrees {
			agreed++
		}
	}

	if snap.MACDHist != nil && snap.ATR14 != nil && *snap.ATR14 > 0 {
		v := dir * *snap.MACDHist / *snap.ATR14
		add(0.35, clamp01(0.5+v), v > 0)
	}

	if snap.RSI14 != nil {
		// Buys score best near RSI 60, sells near 40; either fades to zero
		// 40 points away from its sweet spot.
		center := 60.0
		if typ == contracts.SignalSell {
			center = 40.0
		}
		dist := *snap.RSI14 - center
		if dist < 0 {
			dist = -dist
		}
		comp := clamp01(1 - dist/40)
		add(0.25, comp, comp > 0.5)
	}

	if len(bars) >= stochFastK+2*stochSlow {
		slowK, slowD := talib.Stoch(highsOf(bars), lowsOf(bars), closesOf(bars),
			stochFastK, stochSlow, talib.SMA, stochSlow, talib.SMA)
		last := len(bars) - 1
		v := dir * (slowK[last] - slowD[last])
		add(0.20, clamp01(0.5+v/20), v > 0)
	}

	if len(bars) > obvLookback {
		obv := talib.Obv(closesOf(bars), volumesOf(bars))
		last := len(bars) - 1
		delta := dir * (obv[last] - obv[last-obvLookback])
		avgVol, ok := trailingMean(volumesOf(bars), obvLookback)
		if ok && avgVol > 0 {
			add(0.20, clamp01(0.5+delta/(avgVol*float64(obvLookback))), delta > 0)
		}
	}

	if weightSum == 0 || checks == 0 {
		return 0, 0
	}
	return 100 * score / weightSum, 100 * float64(agreed) / float64(checks)
}
