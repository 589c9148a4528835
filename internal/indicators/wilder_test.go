package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argie33/algo-sub009/internal/contracts"
)

func TestRSI_AllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	v, ok := rsi(closes, 14)
	require.True(t, ok)
	assert.Equal(t, 100.0, v, "zero average loss is defined as RSI 100, not NaN")
}

func TestRSI_AllLosses(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}

	v, ok := rsi(closes, 14)
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestRSI_BalancedMoves(t *testing.T) {
	// Alternating +1/-1 moves: gains and losses average out, RSI near 50.
	closes := make([]float64, 40)
	closes[0] = 100
	for i := 1; i < len(closes); i++ {
		if i%2 == 0 {
			closes[i] = closes[i-1] - 1
		} else {
			closes[i] = closes[i-1] + 1
		}
	}

	v, ok := rsi(closes, 14)
	require.True(t, ok)
	assert.InDelta(t, 50.0, v, 5.0)
}

func TestRSI_InsufficientData(t *testing.T) {
	_, ok := rsi([]float64{1, 2, 3}, 14)
	assert.False(t, ok)

	// Exactly period+1 closes is the minimum.
	closes := make([]float64, 15)
	for i := range closes {
		closes[i] = float64(i)
	}
	_, ok = rsi(closes, 14)
	assert.True(t, ok)
}

func flatBars(n int, spread float64) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, n)
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = contracts.PriceBar{
			Symbol: "T",
			Date:   date.AddDate(0, 0, i),
			Open:   100,
			High:   100 + spread/2,
			Low:    100 - spread/2,
			Close:  100,
			Volume: 1000,
		}
	}
	return bars
}

func TestATR_ConstantRange(t *testing.T) {
	// Every bar has the same 2-point range and no gaps, so the smoothed
	// true range converges to exactly that range.
	bars := flatBars(30, 2)

	v, ok := atr(bars, 14)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestATR_GapDominatesRange(t *testing.T) {
	bars := flatBars(20, 2)
	// Gap the last bar far above the prior close: true range must use the
	// close-to-high distance, not the bar's own high-low.
	last := len(bars) - 1
	bars[last].Open = 120
	bars[last].High = 121
	bars[last].Low = 119
	bars[last].Close = 120

	tr := trueRange(bars[last], bars[last-1].Close)
	assert.Equal(t, 21.0, tr)

	v, ok := atr(bars, 14)
	require.True(t, ok)
	assert.Greater(t, v, 2.0)
}

func TestATR_InsufficientData(t *testing.T) {
	_, ok := atr(flatBars(14, 2), 14)
	assert.False(t, ok, "needs period+1 bars for the first true range")

	_, ok = atr(flatBars(15, 2), 14)
	assert.True(t, ok)
}
