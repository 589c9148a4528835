package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argie33/algo-sub009/internal/contracts"
)

func snapWithSMAs(sma20, sma50 float64) *contracts.IndicatorSnapshot {
	return &contracts.IndicatorSnapshot{
		Symbol: "T",
		Date:   testDate,
		SMA20:  contracts.Float64Ptr(sma20),
		SMA50:  contracts.Float64Ptr(sma50),
	}
}

func TestClassifyStage(t *testing.T) {
	tests := []struct {
		name  string
		bars  []contracts.PriceBar
		snap  *contracts.IndicatorSnapshot
		stage contracts.MarketStage
	}{
		{
			name:  "rising price above rising averages",
			bars:  rampBars(60, 100, 1),
			snap:  snapWithSMAs(149.5, 134.5),
			stage: contracts.StageUptrend,
		},
		{
			name:  "falling price below falling averages",
			bars:  rampBars(60, 200, -1),
			snap:  snapWithSMAs(150.5, 165.5),
			stage: contracts.StageDowntrend,
		},
		{
			name: "price elevated but short average rolled under",
			// Rising tape, snapshot says momentum flipped: 20 < 50 while
			// price still sits above the medium average.
			bars:  rampBars(60, 100, 1),
			snap:  snapWithSMAs(130, 140),
			stage: contracts.StageTopping,
		},
		{
			name:  "flat tape contracts into a base",
			bars:  rampBars(60, 100, 0),
			snap:  snapWithSMAs(100, 100),
			stage: contracts.StageBasing,
		},
		{
			name:  "missing averages",
			bars:  rampBars(60, 100, 1),
			snap:  &contracts.IndicatorSnapshot{Symbol: "T", Date: testDate},
			stage: contracts.StageUnknown,
		},
		{
			name:  "history too short for a slope",
			bars:  rampBars(30, 100, 1),
			snap:  snapWithSMAs(115, 110),
			stage: contracts.StageUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stage, classifyStage(tt.snap, tt.bars))
		})
	}
}
