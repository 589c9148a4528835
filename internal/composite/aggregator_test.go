package composite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

var testDate = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

func defaultWeights() map[contracts.Category]float64 {
	return map[contracts.Category]float64{
		contracts.CategoryQuality:     0.20,
		contracts.CategoryGrowth:      0.20,
		contracts.CategoryValue:       0.15,
		contracts.CategoryMomentum:    0.20,
		contracts.CategoryStability:   0.15,
		contracts.CategoryPositioning: 0.10,
	}
}

func testAggregator(t *testing.T, minPresent int) *Aggregator {
	t.Helper()
	a, err := New(Config{
		Weights:           defaultWeights(),
		MinPresentFactors: minPresent,
	}, "v1", logger.Nop())
	require.NoError(t, err)
	return a
}

func factorScore(symbol string, cat contracts.Category, score float64) contracts.FactorScore {
	return contracts.FactorScore{
		Symbol:          symbol,
		Date:            testDate,
		Category:        cat,
		PercentileScore: score,
		MetricCount:     3,
		PipelineVersion: "v1",
	}
}

func TestAggregate_AllFactorsPresent(t *testing.T) {
	a := testAggregator(t, 2)

	factors := map[contracts.Category]contracts.FactorScore{}
	for _, cat := range contracts.Categories() {
		factors[cat] = factorScore("AAPL", cat, 60)
	}

	cs := a.Aggregate("AAPL", testDate, factors)
	require.NotNil(t, cs)

	assert.InDelta(t, 60.0, cs.Score, 1e-9)

	sum := 0.0
	for _, w := range cs.WeightsUsed {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "effective weights must sum to 1")
}

func TestAggregate_TwoOfSixPresent(t *testing.T) {
	// Quality and Momentum present, four factors missing, threshold 2:
	// the composite must exist with weights renormalized over the pair.
	a := testAggregator(t, 2)

	factors := map[contracts.Category]contracts.FactorScore{
		contracts.CategoryQuality:  factorScore("Z", contracts.CategoryQuality, 80),
		contracts.CategoryMomentum: factorScore("Z", contracts.CategoryMomentum, 40),
	}

	cs := a.Aggregate("Z", testDate, factors)
	require.NotNil(t, cs)

	// Equal target weights (0.20 each) renormalize to 0.5/0.5.
	assert.InDelta(t, 0.5, cs.WeightsUsed[contracts.CategoryQuality], 1e-9)
	assert.InDelta(t, 0.5, cs.WeightsUsed[contracts.CategoryMomentum], 1e-9)
	assert.InDelta(t, 60.0, cs.Score, 1e-9)

	assert.Len(t, cs.Factors, 2)
	_, hasValue := cs.Factors[contracts.CategoryValue]
	assert.False(t, hasValue, "missing factors are absent, never defaulted")
}

func TestAggregate_BelowMinPresent(t *testing.T) {
	a := testAggregator(t, 2)

	factors := map[contracts.Category]contracts.FactorScore{
		contracts.CategoryQuality: factorScore("THIN", contracts.CategoryQuality, 90),
	}

	assert.Nil(t, a.Aggregate("THIN", testDate, factors),
		"one present factor with threshold 2 must produce no row")
}

func TestAggregate_ZeroMetricCountTreatedAsAbsent(t *testing.T) {
	a := testAggregator(t, 2)

	empty := factorScore("X", contracts.CategoryValue, 50)
	empty.MetricCount = 0

	factors := map[contracts.Category]contracts.FactorScore{
		contracts.CategoryQuality:  factorScore("X", contracts.CategoryQuality, 70),
		contracts.CategoryMomentum: factorScore("X", contracts.CategoryMomentum, 30),
		contracts.CategoryValue:    empty,
	}

	cs := a.Aggregate("X", testDate, factors)
	require.NotNil(t, cs)

	_, hasValue := cs.WeightsUsed[contracts.CategoryValue]
	assert.False(t, hasValue)
	assert.Len(t, cs.Factors, 2)
}

func TestAggregate_UnevenWeightsRenormalized(t *testing.T) {
	a := testAggregator(t, 2)

	// Value (0.15) and Momentum (0.20): effective weights 3/7 and 4/7.
	factors := map[contracts.Category]contracts.FactorScore{
		contracts.CategoryValue:    factorScore("Y", contracts.CategoryValue, 70),
		contracts.CategoryMomentum: factorScore("Y", contracts.CategoryMomentum, 0),
	}

	cs := a.Aggregate("Y", testDate, factors)
	require.NotNil(t, cs)

	assert.InDelta(t, 0.15/0.35, cs.WeightsUsed[contracts.CategoryValue], 1e-9)
	assert.InDelta(t, 0.20/0.35, cs.WeightsUsed[contracts.CategoryMomentum], 1e-9)
	assert.InDelta(t, 70*0.15/0.35, cs.Score, 1e-9)
}

func TestBuild_SkipsIneligibleAndSorts(t *testing.T) {
	a := testAggregator(t, 2)

	scores := []contracts.FactorScore{
		factorScore("BBB", contracts.CategoryQuality, 50),
		factorScore("BBB", contracts.CategoryGrowth, 60),
		factorScore("AAA", contracts.CategoryQuality, 40),
		factorScore("AAA", contracts.CategoryValue, 80),
		factorScore("ONLY", contracts.CategoryMomentum, 99),
	}

	composites := a.Build(testDate, scores)
	require.Len(t, composites, 2)

	// Deterministic symbol order regardless of input order.
	assert.Equal(t, "AAA", composites[0].Symbol)
	assert.Equal(t, "BBB", composites[1].Symbol)
}

func TestNew_RequiresAllCategories(t *testing.T) {
	w := defaultWeights()
	delete(w, contracts.CategoryPositioning)

	_, err := New(Config{Weights: w, MinPresentFactors: 2}, "v1", logger.Nop())
	assert.Error(t, err)
}
