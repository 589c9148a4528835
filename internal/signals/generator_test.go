package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

var testDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		ATRStopMultMin:    1.0,
		ATRStopMultMax:    3.0,
		TargetRiskReward:  2.0,
		PivotLookback:     20,
		ZeroVolumeWindow:  252,
		ZeroVolumeMaxFrac: 0.90,
	}
}

func testGenerator() *Generator {
	return New(testConfig(), "v1", logger.Nop())
}

// rampBars builds n bars whose closes move by step each day, with a 2-point
// high/low range and nonzero volume.
func rampBars(n int, start, step float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	date := testDate.AddDate(0, 0, -n)
	c := start
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Symbol: "T",
			Date:   date.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 50_000,
		}
		c += step
	}
	return bars
}

func uptrendSnapshot() *contracts.IndicatorSnapshot {
	// Consistent with rampBars(60, 100, 1): last close 159.
	return &contracts.IndicatorSnapshot{
		Symbol:   "T",
		Date:     testDate,
		SMA20:    contracts.Float64Ptr(149.5),
		SMA50:    contracts.Float64Ptr(134.5),
		RSI14:    contracts.Float64Ptr(65),
		MACDHist: contracts.Float64Ptr(1.5),
		ATR14:    contracts.Float64Ptr(2),
	}
}

func TestGenerate_BuySignalLevels(t *testing.T) {
	g := testGenerator()
	bars := rampBars(60, 100, 1)

	sig, err := g.Generate("T", testDate, uptrendSnapshot(), bars)
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SignalBuy, sig.Type)
	assert.Equal(t, contracts.StageUptrend, sig.Stage)

	require.NotNil(t, sig.BuyLevel)
	require.NotNil(t, sig.StopLevel)
	require.NotNil(t, sig.TargetLevel)
	require.NotNil(t, sig.RiskPct)

	assert.Equal(t, 159.0, *sig.BuyLevel)

	// The 20-bar pivot low (139) is further than 3 ATR below the entry, so
	// the stop is clamped to entry - 3*ATR.
	assert.Equal(t, 153.0, *sig.StopLevel)
	assert.InDelta(t, 6.0/159.0*100, *sig.RiskPct, 1e-9)

	// Target at 2R above entry.
	assert.Equal(t, 171.0, *sig.TargetLevel)

	require.NotNil(t, sig.Strength)
	require.NotNil(t, sig.QualityScore)
	assert.GreaterOrEqual(t, *sig.Strength, 0.0)
	assert.LessOrEqual(t, *sig.Strength, 100.0)
	assert.Greater(t, *sig.Strength, 50.0, "rising tape must confirm a Buy")
}

func TestGenerate_SellSignalLevels(t *testing.T) {
	g := testGenerator()
	bars := rampBars(60, 200, -1)

	snap := &contracts.IndicatorSnapshot{
		Symbol:   "T",
		Date:     testDate,
		SMA20:    contracts.Float64Ptr(150.5),
		SMA50:    contracts.Float64Ptr(165.5),
		RSI14:    contracts.Float64Ptr(40),
		MACDHist: contracts.Float64Ptr(-1.5),
		ATR14:    contracts.Float64Ptr(2),
	}

	sig, err := g.Generate("T", testDate, snap, bars)
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SignalSell, sig.Type)
	assert.Equal(t, contracts.StageDowntrend, sig.Stage)

	require.NotNil(t, sig.StopLevel)
	require.NotNil(t, sig.RiskPct)

	// Short entry: stop sits above entry, clamped to entry + 3*ATR because
	// the pivot high (161) is further away than the bound.
	assert.Equal(t, 141.0, *sig.BuyLevel)
	assert.Equal(t, 147.0, *sig.StopLevel)
	assert.Equal(t, 129.0, *sig.TargetLevel)
	assert.InDelta(t, 6.0/141.0*100, *sig.RiskPct, 1e-9)

	require.NotNil(t, sig.Strength)
}

func TestGenerate_NoneSignalHasNullStrength(t *testing.T) {
	g := testGenerator()

	// Snapshot missing MACD: required indicators incomplete, so the day is
	// None regardless of the tape.
	snap := uptrendSnapshot()
	snap.MACDHist = nil

	sig, err := g.Generate("T", testDate, snap, rampBars(60, 100, 1))
	require.NoError(t, err)
	require.NotNil(t, sig)

	assert.Equal(t, contracts.SignalNone, sig.Type)
	assert.Nil(t, sig.Strength, "None must carry NULL strength, not 0")
	assert.Nil(t, sig.QualityScore)
	assert.Nil(t, sig.BuyLevel)
	assert.Nil(t, sig.StopLevel)
	assert.Nil(t, sig.TargetLevel)
	assert.Nil(t, sig.RiskPct)
	assert.False(t, sig.IsActionable())
}

func TestGenerate_OverboughtBlocksBuy(t *testing.T) {
	g := testGenerator()

	snap := uptrendSnapshot()
	snap.RSI14 = contracts.Float64Ptr(85)

	sig, err := g.Generate("T", testDate, snap, rampBars(60, 100, 1))
	require.NoError(t, err)
	assert.Equal(t, contracts.SignalNone, sig.Type)
	assert.Nil(t, sig.Strength)
}

func TestGenerate_ZeroVolumeExclusion(t *testing.T) {
	g := testGenerator()

	// 300 bars, but nearly the whole trailing 252-bar window is zero
	// volume: the symbol is excluded for the date — no row, not a None row.
	bars := rampBars(300, 100, 0.1)
	for i := len(bars) - 252; i < len(bars)-10; i++ {
		bars[i].Volume = 0
	}

	sig, err := g.Generate("T", testDate, uptrendSnapshot(), bars)
	require.NoError(t, err)
	assert.Nil(t, sig)
}

func TestGenerate_ThinButTradablePasses(t *testing.T) {
	g := testGenerator()

	// Half the window is zero volume: under the 90% threshold, the symbol
	// still gets evaluated.
	bars := rampBars(60, 100, 1)
	for i := 0; i < len(bars); i += 2 {
		bars[i].Volume = 0
	}

	sig, err := g.Generate("T", testDate, uptrendSnapshot(), bars)
	require.NoError(t, err)
	require.NotNil(t, sig)
}

func TestGenerate_MissingInputs(t *testing.T) {
	g := testGenerator()

	_, err := g.Generate("T", testDate, nil, rampBars(10, 100, 1))
	assert.ErrorIs(t, err, contracts.ErrMissingData)

	_, err = g.Generate("T", testDate, uptrendSnapshot(), nil)
	assert.ErrorIs(t, err, contracts.ErrMissingData)
}

func TestGenerate_StatelessAcrossDates(t *testing.T) {
	// The same inputs must yield the same signal on repeated evaluation:
	// there is no carried position state.
	g := testGenerator()
	bars := rampBars(60, 100, 1)

	a, err := g.Generate("T", testDate, uptrendSnapshot(), bars)
	require.NoError(t, err)
	b, err := g.Generate("T", testDate, uptrendSnapshot(), bars)
	require.NoError(t, err)

	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, *a.Strength, *b.Strength)
	assert.Equal(t, *a.StopLevel, *b.StopLevel)
}
