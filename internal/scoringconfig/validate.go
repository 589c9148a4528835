package scoringconfig

import (
	"fmt"
	"math"
)

const weightEpsilon = 1e-6

// Validate checks structural invariants of a strategy config. It runs on
// every load so a bad config fails fast instead of producing skewed scores.
func Validate(cfg *Config) error {
	if cfg.Meta.PipelineVersion == "" {
		return fmt.Errorf("meta.pipeline_version is required")
	}

	if sum := cfg.Weights.Sum(); math.Abs(sum-1.0) > weightEpsilon {
		return fmt.Errorf("factor weights must sum to 1.0, got %.6f", sum)
	}

	if cfg.Composite.MinPresentFactors < 1 || cfg.Composite.MinPresentFactors > 6 {
		return fmt.Errorf("composite.min_present_factors must be in [1,6], got %d", cfg.Composite.MinPresentFactors)
	}

	n := cfg.Normalization
	if n.WinsorizeLowerPct < 0 || n.WinsorizeUpperPct > 100 || n.WinsorizeLowerPct >= n.WinsorizeUpperPct {
		return fmt.Errorf("winsorize percentiles must satisfy 0 <= lower < upper <= 100, got [%v, %v]",
			n.WinsorizeLowerPct, n.WinsorizeUpperPct)
	}

	ind := cfg.Indicators
	if len(ind.SMAPeriods) == 0 {
		return fmt.Errorf("indicators.sma_periods must not be empty")
	}
	for _, p := range ind.SMAPeriods {
		if p < 1 {
			return fmt.Errorf("indicators.sma_periods entries must be positive, got %d", p)
		}
	}
	if ind.MACDFast < 1 || ind.MACDSlow <= ind.MACDFast || ind.MACDSignal < 1 {
		return fmt.Errorf("macd periods must satisfy 0 < fast < slow and signal > 0, got %d/%d/%d",
			ind.MACDFast, ind.MACDSlow, ind.MACDSignal)
	}
	if ind.RSIPeriod < 2 {
		return fmt.Errorf("indicators.rsi_period must be >= 2, got %d", ind.RSIPeriod)
	}
	if ind.ATRPeriod < 1 {
		return fmt.Errorf("indicators.atr_period must be positive, got %d", ind.ATRPeriod)
	}
	if len(ind.ROCHorizons) == 0 {
		return fmt.Errorf("indicators.roc_horizons must not be empty")
	}
	for i := 1; i < len(ind.ROCHorizons); i++ {
		if ind.ROCHorizons[i] >= ind.ROCHorizons[i-1] {
			return fmt.Errorf("indicators.roc_horizons must be strictly descending (fallback order)")
		}
	}
	if ind.RatioCeiling <= 0 {
		return fmt.Errorf("indicators.ratio_ceiling must be positive, got %v", ind.RatioCeiling)
	}

	sig := cfg.Signals
	if sig.ATRStopMultMin <= 0 || sig.ATRStopMultMax < sig.ATRStopMultMin {
		return fmt.Errorf("atr stop multipliers must satisfy 0 < min <= max, got [%v, %v]",
			sig.ATRStopMultMin, sig.ATRStopMultMax)
	}
	if sig.TargetRiskReward <= 0 {
		return fmt.Errorf("signals.target_risk_reward must be positive, got %v", sig.TargetRiskReward)
	}
	if sig.PivotLookback < 2 {
		return fmt.Errorf("signals.pivot_lookback must be >= 2, got %d", sig.PivotLookback)
	}
	if sig.ZeroVolumeWindow < 1 {
		return fmt.Errorf("signals.zero_volume_window must be positive, got %d", sig.ZeroVolumeWindow)
	}
	if sig.ZeroVolumeMaxFrac <= 0 || sig.ZeroVolumeMaxFrac > 1 {
		return fmt.Errorf("signals.zero_volume_max_frac must be in (0,1], got %v", sig.ZeroVolumeMaxFrac)
	}

	return nil
}
