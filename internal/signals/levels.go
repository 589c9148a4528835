package signals

import "github.com/argie33/algo-sub009/internal/contracts"

// applyLevels fills entry, stop, target, and risk for an actionable signal.
// The raw stop comes from the pivot structure of the trailing lookback
// window; the distance to it is then bounded to [min, max] ATR multiples so
// a distant pivot cannot produce an absurdly wide stop, nor a nearby one an
// untradeably tight stop. Target sits at the configured reward multiple of
// the entry-to-stop risk.
//
// A Sell signal is a short entry: its stop sits above the entry and
// risk_pct is still the entry-to-stop distance relative to the entry.
func (g *Generator) applyLevels(sig *contracts.Signal, snap *contracts.IndicatorSnapshot, bars []contracts.PriceBar) {
	if snap.ATR14 == nil {
		return
	}
	atrVal := *snap.ATR14
	if atrVal <= 0 {
		return
	}

	entry := bars[len(bars)-1].Close

	lookback := g.cfg.PivotLookback
	if lookback > len(bars) {
		lookback = len(bars)
	}
	window := bars[len(bars)-lookback:]

	switch sig.Type {
	case contracts.SignalBuy:
		support := window[0].Low
		for _, b := range window {
			if b.Low < support {
				support = b.Low
			}
		}
		stop := clamp(support, entry-g.cfg.ATRStopMultMax*atrVal, entry-g.cfg.ATRStopMultMin*atrVal)
		risk := entry - stop

		sig.BuyLevel = contracts.Float64Ptr(entry)
		sig.StopLevel = contracts.Float64Ptr(stop)
		sig.TargetLevel = contracts.Float64Ptr(entry + g.cfg.TargetRiskReward*risk)
		if entry > 0 {
			sig.RiskPct = contracts.Float64Ptr(risk / entry * 100)
		}

	case contracts.SignalSell:
		resistance := window[0].High
		for _, b := range window {
			if b.High > resistance {
				resistance = b.High
			}
		}
		stop := clamp(resistance, entry+g.cfg.ATRStopMultMin*atrVal, entry+g.cfg.ATRStopMultMax*atrVal)
		risk := stop - entry

		sig.BuyLevel = contracts.Float64Ptr(entry)
		sig.StopLevel = contracts.Float64Ptr(stop)
		sig.TargetLevel = contracts.Float64Ptr(entry - g.cfg.TargetRiskReward*risk)
		if entry > 0 {
			sig.RiskPct = contracts.Float64Ptr(risk / entry * 100)
		}
	}
}
