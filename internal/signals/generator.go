package signals

import (
	"fmt"
	"time"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

// Config controls signal generation.
type Config struct {
	// Stop distance bounds as ATR multiples.
	ATRStopMultMin float64
	ATRStopMultMax float64

	// TargetRiskReward is the target distance as a multiple of the
	// entry-to-stop risk.
	TargetRiskReward float64

	// PivotLookback is the bar window scanned for support/resistance pivots.
	PivotLookback int

	// ZeroVolumeWindow / ZeroVolumeMaxFrac define the illiquidity filter:
	// a symbol whose trailing window is zero-volume beyond the fraction is
	// excluded from signal generation for the date.
	ZeroVolumeWindow  int
	ZeroVolumeMaxFrac float64
}

// Generator turns an IndicatorSnapshot plus recent bars into the day's
// trading signal. Each date is evaluated independently from the current
// snapshot; there is no carried position state.
type Generator struct {
	cfg     Config
	version string
	logger  *logger.Logger
}

// New creates a signal generator.
func New(cfg Config, version string, log *logger.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		version: version,
		logger:  log,
	}
}

// Generate evaluates one symbol for one date. bars must be ascending and
// end at date. A (nil, nil) return means the symbol is excluded by the
// illiquidity filter: no row at all, which is distinct from a None signal.
//
// Strength and quality are computed only for actionable signals; a None
// signal carries nil for both.
func (g *Generator) Generate(symbol string, date time.Time, snap *contracts.IndicatorSnapshot, bars []contracts.PriceBar) (*contracts.Signal, error) {
	if snap == nil || len(bars) == 0 {
		return nil, fmt.Errorf("symbol %s: signal inputs missing: %w", symbol, contracts.ErrMissingData)
	}

	if g.illiquid(bars) {
		g.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"date":   date.Format("2006-01-02"),
		}).Debug("excluded by zero-volume filter")
		return nil, nil
	}

	stage := classifyStage(snap, bars)
	lastClose := bars[len(bars)-1].Close

	sig := &contracts.Signal{
		Symbol:          symbol,
		Date:            date,
		Type:            decideType(snap, stage, lastClose),
		Stage:           stage,
		PipelineVersion: g.version,
	}

	if sig.Type == contracts.SignalNone {
		return sig, nil
	}

	g.applyLevels(sig, snap, bars)

	strength, quality := g.strength(sig.Type, snap, bars)
	sig.Strength = contracts.Float64Ptr(strength)
	sig.QualityScore = contracts.Float64Ptr(quality)

	return sig, nil
}

// illiquid applies the zero-volume filter over the trailing window. The
// threshold is deliberately generous: thin but tradable names pass.
func (g *Generator) illiquid(bars []contracts.PriceBar) bool {
	window := g.cfg.ZeroVolumeWindow
	if window <= 0 || window > len(bars) {
		window = len(bars)
	}

	zero := 0
	for _, bar := range bars[len(bars)-window:] {
		if bar.Volume == 0 {
			zero++
		}
	}
	return float64(zero)/float64(window) > g.cfg.ZeroVolumeMaxFrac
}

// decideType gates entries on the stage plus indicator confirmation. Any
// required indicator still undefined means None, never a guess.
func decideType(snap *contracts.IndicatorSnapshot, stage contracts.MarketStage, lastClose float64) contracts.SignalType {
	if snap.SMA20 == nil || snap.SMA50 == nil || snap.RSI14 == nil ||
		snap.MACDHist == nil || snap.ATR14 == nil {
		return contracts.SignalNone
	}

	switch stage {
	case contracts.StageUptrend:
		if lastClose > *snap.SMA20 && *snap.MACDHist > 0 && *snap.RSI14 < 70 {
			return contracts.SignalBuy
		}
	case contracts.StageDowntrend, contracts.StageTopping:
		if lastClose < *snap.SMA20 && *snap.MACDHist < 0 && *snap.RSI14 > 30 {
			return contracts.SignalSell
		}
	}
	return contracts.SignalNone
}
