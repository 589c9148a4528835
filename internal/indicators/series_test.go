package indicators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	v, ok := sma(values, 5)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	v, ok = sma(values, 2)
	require.True(t, ok)
	assert.Equal(t, 4.5, v, "trailing window, not leading")

	_, ok = sma(values, 6)
	assert.False(t, ok, "undefined until period values exist")
}

func TestEMASeries_SeededWithSMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}

	series := emaSeries(values, 3)
	require.NotNil(t, series)

	// First defined value is the simple average of the first 3.
	assert.Equal(t, 4.0, series[2])

	// Then ema = v*k + prev*(1-k), k = 2/(3+1) = 0.5.
	assert.Equal(t, 8*0.5+4*0.5, series[3])
	assert.Equal(t, 10*0.5+6*0.5, series[4])
}

func TestEMASeries_InsufficientData(t *testing.T) {
	assert.Nil(t, emaSeries([]float64{1, 2}, 3))
}

func TestEMAvsSMA_DivergeOnMonotonicSeries(t *testing.T) {
	// Geometric growth: monotonically increasing. A true EMA weights recent
	// values more than a simple average, so the two smoothers must disagree.
	// Guards against the simple-average-substitution defect in MACD.
	values := make([]float64, 60)
	v := 100.0
	for i := range values {
		values[i] = v
		v *= 1.02
	}

	ema := emaSeries(values, 12)
	smaS := smaSeries(values, 12)
	require.NotNil(t, ema)
	require.NotNil(t, smaS)

	last := len(values) - 1
	assert.Greater(t, math.Abs(ema[last]-smaS[last]), 1e-6,
		"EMA and SMA must not coincide on a monotonic series")
	assert.Greater(t, ema[last], smaS[last],
		"EMA must track a rising series more closely than SMA")
}
