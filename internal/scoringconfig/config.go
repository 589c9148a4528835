package scoringconfig

// Config is the full scoring strategy configuration, loaded from YAML.
// Weight or threshold changes flow through here and are hashed per run, so
// historical scores stay auditable against the config that produced them.
type Config struct {
	Meta          Meta          `yaml:"meta" json:"meta"`
	Weights       Weights       `yaml:"weights" json:"weights"`
	Composite     Composite     `yaml:"composite" json:"composite"`
	Normalization Normalization `yaml:"normalization" json:"normalization"`
	Indicators    Indicators    `yaml:"indicators" json:"indicators"`
	Signals       Signals       `yaml:"signals" json:"signals"`
}

// Meta identifies the strategy and pipeline version stamped onto every
// derived row.
type Meta struct {
	StrategyID      string `yaml:"strategy_id" json:"strategy_id"`
	PipelineVersion string `yaml:"pipeline_version" json:"pipeline_version"`
}

// Weights are the target factor weights. They must sum to 1.0; the composite
// aggregator renormalizes over present factors at run time.
type Weights struct {
	Quality     float64 `yaml:"quality" json:"quality"`
	Growth      float64 `yaml:"growth" json:"growth"`
	Value       float64 `yaml:"value" json:"value"`
	Momentum    float64 `yaml:"momentum" json:"momentum"`
	Stability   float64 `yaml:"stability" json:"stability"`
	Positioning float64 `yaml:"positioning" json:"positioning"`
}

// Sum returns the total of all target weights.
func (w Weights) Sum() float64 {
	return w.Quality + w.Growth + w.Value + w.Momentum + w.Stability + w.Positioning
}

// Composite controls composite score eligibility.
type Composite struct {
	// MinPresentFactors is the minimum number of factor scores a symbol
	// needs before a composite is produced at all.
	MinPresentFactors int `yaml:"min_present_factors" json:"min_present_factors"`
}

// Normalization controls the cross-sectional percentile pass.
type Normalization struct {
	WinsorizeLowerPct float64 `yaml:"winsorize_lower_pct" json:"winsorize_lower_pct"` // e.g. 5
	WinsorizeUpperPct float64 `yaml:"winsorize_upper_pct" json:"winsorize_upper_pct"` // e.g. 95
	MinUniverseSize   int     `yaml:"min_universe_size" json:"min_universe_size"`
}

// Indicators controls the technical indicator engine.
type Indicators struct {
	SMAPeriods   []int   `yaml:"sma_periods" json:"sma_periods"`     // 20, 50, 200
	RSIPeriod    int     `yaml:"rsi_period" json:"rsi_period"`       // 14
	MACDFast     int     `yaml:"macd_fast" json:"macd_fast"`         // 12
	MACDSlow     int     `yaml:"macd_slow" json:"macd_slow"`         // 26
	MACDSignal   int     `yaml:"macd_signal" json:"macd_signal"`     // 9
	ATRPeriod    int     `yaml:"atr_period" json:"atr_period"`       // 14
	ROCHorizons  []int   `yaml:"roc_horizons" json:"roc_horizons"`   // 252, 120 (fallback order)
	RatioCeiling float64 `yaml:"ratio_ceiling" json:"ratio_ceiling"` // 9999
}

// Signals controls the signal level generator.
type Signals struct {
	ATRStopMultMin    float64 `yaml:"atr_stop_mult_min" json:"atr_stop_mult_min"`
	ATRStopMultMax    float64 `yaml:"atr_stop_mult_max" json:"atr_stop_mult_max"`
	TargetRiskReward  float64 `yaml:"target_risk_reward" json:"target_risk_reward"`
	PivotLookback     int     `yaml:"pivot_lookback" json:"pivot_lookback"`
	ZeroVolumeWindow  int     `yaml:"zero_volume_window" json:"zero_volume_window"`
	ZeroVolumeMaxFrac float64 `yaml:"zero_volume_max_frac" json:"zero_volume_max_frac"`
}

// Default returns the configuration used when no YAML path is supplied.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID:      "us_equity_composite",
			PipelineVersion: "v1",
		},
		Weights: Weights{
			Quality:     0.20,
			Growth:      0.20,
			Value:       0.15,
			Momentum:    0.20,
			Stability:   0.15,
			Positioning: 0.10,
		},
		Composite: Composite{
			MinPresentFactors: 2,
		},
		Normalization: Normalization{
			WinsorizeLowerPct: 5,
			WinsorizeUpperPct: 95,
			MinUniverseSize:   20,
		},
		Indicators: Indicators{
			SMAPeriods:   []int{20, 50, 200},
			RSIPeriod:    14,
			MACDFast:     12,
			MACDSlow:     26,
			MACDSignal:   9,
			ATRPeriod:    14,
			ROCHorizons:  []int{252, 120},
			RatioCeiling: 9999,
		},
		Signals: Signals{
			ATRStopMultMin:    1.0,
			ATRStopMultMax:    3.0,
			TargetRiskReward:  2.0,
			PivotLookback:     20,
			ZeroVolumeWindow:  252,
			ZeroVolumeMaxFrac: 0.90,
		},
	}
}
