package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argie33/algo-sub009/internal/contracts"
)

func TestDefault(t *testing.T) {
	r := Default()

	// Every category has at least one metric to rank.
	for _, cat := range contracts.Categories() {
		assert.NotEmpty(t, r.Category(cat), "category %s has no metrics", cat)
	}

	// Ambiguous metrics carry a detection threshold.
	for _, cat := range contracts.Categories() {
		for _, def := range r.Category(cat) {
			if def.Scale == ScaleAmbiguous {
				assert.Greater(t, def.DetectThreshold, 0.0, "metric %s", def.Name)
			}
		}
	}

	// Every metric declares at least one loader source to resolve against.
	for _, cat := range contracts.Categories() {
		for _, def := range r.Category(cat) {
			assert.NotEmpty(t, def.Sources, "metric %s declares no source", def.Name)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		defs []MetricDef
	}{
		{
			name: "duplicate name",
			defs: []MetricDef{
				{Name: "roe", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleRaw},
				{Name: "roe", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleRaw},
			},
		},
		{
			name: "unknown category",
			defs: []MetricDef{
				{Name: "roe", Category: "sentiment", Direction: HigherIsBetter, Scale: ScaleRaw},
			},
		},
		{
			name: "ambiguous without threshold",
			defs: []MetricDef{
				{Name: "roe", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleAmbiguous},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.defs)
			assert.Error(t, err)
		})
	}
}

func TestLookup(t *testing.T) {
	r := Default()

	def, ok := r.Lookup("debt_to_equity")
	require.True(t, ok)
	assert.Equal(t, LowerIsBetter, def.Direction)
	assert.Equal(t, contracts.CategoryStability, def.Category)

	_, ok = r.Lookup("nonexistent")
	assert.False(t, ok)
}
