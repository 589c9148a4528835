package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

func testConfig() Config {
	return Config{
		SMAPeriods:   []int{20, 50, 200},
		RSIPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		ATRPeriod:    14,
		ROCHorizons:  []int{252, 120},
		RatioCeiling: 9999,
	}
}

func testEngine() *Engine {
	return New(testConfig(), "v1", logger.Nop())
}

func barsFromCloses(closes []float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, len(closes))
	date := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.PriceBar{
			Symbol: "T",
			Date:   date.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func rampCloses(n int, start, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + float64(i)*step
	}
	return closes
}

func TestCompute_NoBars(t *testing.T) {
	_, err := testEngine().Compute("EMPTY", time.Now(), nil)
	assert.ErrorIs(t, err, contracts.ErrMissingData)
}

func TestCompute_NonFiniteClose(t *testing.T) {
	closes := rampCloses(30, 100, 1)
	closes[10] = math.NaN()

	_, err := testEngine().Compute("BAD", time.Now(), barsFromCloses(closes))
	assert.ErrorIs(t, err, contracts.ErrNumericDegenerate)
}

func TestCompute_ThinHistoryLeavesFieldsNil(t *testing.T) {
	// 10 bars: nothing with a 12+ period window is defined yet. That is a
	// valid snapshot, not an error.
	snap, err := testEngine().Compute("THIN", time.Now(), barsFromCloses(rampCloses(10, 100, 1)))
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Nil(t, snap.SMA20)
	assert.Nil(t, snap.SMA50)
	assert.Nil(t, snap.SMA200)
	assert.Nil(t, snap.EMA12)
	assert.Nil(t, snap.EMA26)
	assert.Nil(t, snap.RSI14)
	assert.Nil(t, snap.MACDLine)
	assert.Nil(t, snap.MACDSignal)
	assert.Nil(t, snap.MACDHist)
	assert.Nil(t, snap.ROC)
	assert.Equal(t, 0, snap.ROCHorizon)
}

func TestCompute_FieldsAppearAsHistoryGrows(t *testing.T) {
	e := testEngine()

	snap, err := e.Compute("T", time.Now(), barsFromCloses(rampCloses(25, 100, 1)))
	require.NoError(t, err)
	assert.NotNil(t, snap.SMA20)
	assert.NotNil(t, snap.EMA12)
	assert.NotNil(t, snap.RSI14)
	assert.NotNil(t, snap.ATR14)
	assert.Nil(t, snap.SMA50)
	assert.Nil(t, snap.MACDLine, "MACD needs slow+signal-1 bars")

	snap, err = e.Compute("T", time.Now(), barsFromCloses(rampCloses(34, 100, 1)))
	require.NoError(t, err)
	assert.NotNil(t, snap.MACDLine)
	assert.NotNil(t, snap.MACDSignal)
	assert.NotNil(t, snap.MACDHist)
}

func TestCompute_MACDHistogramPositiveOnRisingSeries(t *testing.T) {
	// Steadily rising closes: the fast EMA leads the slow, the MACD line
	// rises, and the signal line lags below it, so the histogram is positive.
	closes := rampCloses(50, 10, 1)

	snap, err := testEngine().Compute("UP", time.Now(), barsFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, snap.MACDHist)

	assert.Greater(t, *snap.MACDLine, 0.0)
	assert.Greater(t, *snap.MACDHist, 0.0)
}

func TestCompute_MACDHistogramNegativeOnFallingSeries(t *testing.T) {
	closes := rampCloses(50, 200, -1)

	snap, err := testEngine().Compute("DOWN", time.Now(), barsFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, snap.MACDHist)

	assert.Less(t, *snap.MACDLine, 0.0)
	assert.Less(t, *snap.MACDHist, 0.0)
}

func TestCompute_ROCFallbackHorizon(t *testing.T) {
	e := testEngine()

	// 200 bars: not enough for the 252-day horizon, enough for 120.
	snap, err := e.Compute("MID", time.Now(), barsFromCloses(rampCloses(200, 100, 0.1)))
	require.NoError(t, err)
	require.NotNil(t, snap.ROC)
	assert.Equal(t, 120, snap.ROCHorizon, "substituted horizon must be recorded")

	// 260 bars: the full horizon applies.
	snap, err = e.Compute("FULL", time.Now(), barsFromCloses(rampCloses(260, 100, 0.1)))
	require.NoError(t, err)
	require.NotNil(t, snap.ROC)
	assert.Equal(t, 252, snap.ROCHorizon)

	// 100 bars: no configured horizon fits, ROC stays nil.
	snap, err = e.Compute("SHORT", time.Now(), barsFromCloses(rampCloses(100, 100, 0.1)))
	require.NoError(t, err)
	assert.Nil(t, snap.ROC)
}

func TestCompute_ROCValueAndCeiling(t *testing.T) {
	e := testEngine()

	// Flat 100 then last close 150 over a 120-bar lookback window.
	closes := rampCloses(130, 100, 0)
	closes[len(closes)-1] = 150

	snap, err := e.Compute("T", time.Now(), barsFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, snap.ROC)
	assert.InDelta(t, 50.0, *snap.ROC, 1e-9)

	// Extreme move from a near-zero base is capped, not stored raw.
	closes = rampCloses(130, 0.01, 0)
	closes[len(closes)-1] = 1000

	snap, err = e.Compute("CAP", time.Now(), barsFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, snap.ROC)
	assert.Equal(t, 9999.0, *snap.ROC)
}

func TestCompute_SMAValues(t *testing.T) {
	// Ramp 100..159: SMA20 over the last 20 closes (140..159) is 149.5.
	snap, err := testEngine().Compute("T", time.Now(), barsFromCloses(rampCloses(60, 100, 1)))
	require.NoError(t, err)

	require.NotNil(t, snap.SMA20)
	assert.InDelta(t, 149.5, *snap.SMA20, 1e-9)
	require.NotNil(t, snap.SMA50)
	assert.InDelta(t, 134.5, *snap.SMA50, 1e-9)
	assert.Nil(t, snap.SMA200)
}

func TestCompute_Deterministic(t *testing.T) {
	bars := barsFromCloses(rampCloses(300, 50, 0.5))
	e := testEngine()

	a, err := e.Compute("T", time.Now(), bars)
	require.NoError(t, err)
	b, err := e.Compute("T", time.Now(), bars)
	require.NoError(t, err)

	assert.Equal(t, *a.MACDHist, *b.MACDHist)
	assert.Equal(t, *a.RSI14, *b.RSI14)
	assert.Equal(t, *a.ROC, *b.ROC)
}
