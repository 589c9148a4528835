package scoringconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.InDelta(t, 1.0, cfg.Weights.Sum(), weightEpsilon)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"weights off by far", func(c *Config) { c.Weights.Quality = 0.5 }},
		{"min present zero", func(c *Config) { c.Composite.MinPresentFactors = 0 }},
		{"winsorize inverted", func(c *Config) {
			c.Normalization.WinsorizeLowerPct = 95
			c.Normalization.WinsorizeUpperPct = 5
		}},
		{"macd fast >= slow", func(c *Config) { c.Indicators.MACDFast = 26 }},
		{"roc horizons ascending", func(c *Config) { c.Indicators.ROCHorizons = []int{120, 252} }},
		{"zero volume frac over 1", func(c *Config) { c.Signals.ZeroVolumeMaxFrac = 1.5 }},
		{"atr mult inverted", func(c *Config) {
			c.Signals.ATRStopMultMin = 3
			c.Signals.ATRStopMultMax = 1
		}},
		{"missing pipeline version", func(c *Config) { c.Meta.PipelineVersion = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoad_StrictFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	// "weihts" is a typo: strict decoding must reject it, not score with
	// defaults.
	yaml := `
meta:
  strategy_id: test
  pipeline_version: v1
weihts:
  quality: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestHash_Deterministic(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Weights.Quality = 0.25
	changed.Weights.Growth = 0.15
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
