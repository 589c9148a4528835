package registry

import (
	"fmt"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// Direction declares which end of a metric's distribution is good.
type Direction string

const (
	HigherIsBetter Direction = "higher"
	LowerIsBetter  Direction = "lower"
)

// UnitScale declares how a metric's raw values are expressed.
//
// Ambiguous metrics are the ones historically loaded as either a 0-1 fraction
// or a 0-100 percent depending on source; the normalizer classifies the
// cross-section once per run using DetectThreshold and converts everything to
// percent before ranking. The threshold lives here, not at call sites.
type UnitScale string

const (
	ScaleRaw       UnitScale = "raw"       // use as-is (ratios, multiples, counts)
	ScalePercent   UnitScale = "percent"   // already 0-100
	ScaleFraction  UnitScale = "fraction"  // 0-1, converted to percent
	ScaleAmbiguous UnitScale = "ambiguous" // fraction or percent, detect per run
)

// MetricDef is the declared policy for one raw metric: direction, unit scale,
// storage cap, and source resolution order. Per-metric behavior lives here as
// data so no component carries ad hoc branches. Horizon substitution for the
// price-derived rate-of-change is not a metric policy; it belongs to the
// indicator configuration, which computes those series itself.
type MetricDef struct {
	Name      string
	Category  contracts.Category
	Direction Direction
	Scale     UnitScale

	// DetectThreshold applies to ambiguous metrics only: when the median
	// absolute value of the cross-section exceeds it, values are treated as
	// percent; otherwise as fraction.
	DetectThreshold float64

	// Cap bounds |value| before ranking and storage. Unbounded ratios break
	// fixed-precision numeric columns. Zero means no cap.
	Cap float64

	// Sources is the prioritized list of loader tables for this metric. When
	// more than one table delivered a row for a symbol, the earliest listed
	// source wins; rows stamped with an undeclared source rank last.
	Sources []string
}

// Registry is the central metric registry consulted by the normalizer.
type Registry struct {
	defs       map[string]MetricDef
	byCategory map[contracts.Category][]MetricDef
}

// New builds a registry from defs, rejecting duplicates and unknown categories.
func New(defs []MetricDef) (*Registry, error) {
	r := &Registry{
		defs:       make(map[string]MetricDef, len(defs)),
		byCategory: make(map[contracts.Category][]MetricDef),
	}

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("metric def with empty name")
		}
		if !def.Category.Valid() {
			return nil, fmt.Errorf("metric %s: unknown category %q", def.Name, def.Category)
		}
		if def.Scale == ScaleAmbiguous && def.DetectThreshold <= 0 {
			return nil, fmt.Errorf("metric %s: ambiguous scale requires a detect threshold", def.Name)
		}
		if _, dup := r.defs[def.Name]; dup {
			return nil, fmt.Errorf("duplicate metric def %s", def.Name)
		}
		r.defs[def.Name] = def
		r.byCategory[def.Category] = append(r.byCategory[def.Category], def)
	}

	return r, nil
}

// Lookup returns the definition for a metric name.
func (r *Registry) Lookup(name string) (MetricDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Category returns the definitions belonging to one category, in declaration order.
func (r *Registry) Category(cat contracts.Category) []MetricDef {
	return r.byCategory[cat]
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	return len(r.defs)
}

// storageCap is the default ceiling for unbounded ratios (profit multiples,
// growth rates on tiny bases) before they hit fixed-precision columns.
const storageCap = 9999

// Default returns the registry for the standard equity metric set.
func Default() *Registry {
	defs := []MetricDef{
		// Quality
		{Name: "roe", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "gross_margin", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "operating_margin", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "fcf_to_net_income", Category: contracts.CategoryQuality, Direction: HigherIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"fundamentals_ttm"}},

		// Growth
		{Name: "revenue_growth_yoy", Category: contracts.CategoryGrowth, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "eps_growth_yoy", Category: contracts.CategoryGrowth, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "fcf_growth_yoy", Category: contracts.CategoryGrowth, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"fundamentals_ttm"}},

		// Value (lower multiples are better)
		{Name: "pe_ratio", Category: contracts.CategoryValue, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"valuation_daily", "fundamentals_ttm"}},
		{Name: "pb_ratio", Category: contracts.CategoryValue, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"valuation_daily", "fundamentals_ttm"}},
		{Name: "ps_ratio", Category: contracts.CategoryValue, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"valuation_daily"}},
		{Name: "ev_to_ebitda", Category: contracts.CategoryValue, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"valuation_daily"}},

		// Momentum
		{Name: "roc_252d", Category: contracts.CategoryMomentum, Direction: HigherIsBetter, Scale: ScalePercent, Cap: storageCap,
			Sources: []string{"technicals_daily"}},
		{Name: "roc_120d", Category: contracts.CategoryMomentum, Direction: HigherIsBetter, Scale: ScalePercent, Cap: storageCap,
			Sources: []string{"technicals_daily"}},
		{Name: "roc_20d", Category: contracts.CategoryMomentum, Direction: HigherIsBetter, Scale: ScalePercent, Cap: storageCap,
			Sources: []string{"technicals_daily"}},
		{Name: "rel_volume_20d", Category: contracts.CategoryMomentum, Direction: HigherIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"technicals_daily"}},

		// Stability (less leverage, less volatility)
		{Name: "debt_to_equity", Category: contracts.CategoryStability, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"fundamentals_ttm", "fundamentals_annual"}},
		{Name: "volatility_1y", Category: contracts.CategoryStability, Direction: LowerIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: storageCap,
			Sources: []string{"technicals_daily"}},
		{Name: "beta", Category: contracts.CategoryStability, Direction: LowerIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"technicals_daily"}},
		{Name: "current_ratio", Category: contracts.CategoryStability, Direction: HigherIsBetter, Scale: ScaleRaw, Cap: storageCap,
			Sources: []string{"fundamentals_ttm"}},

		// Positioning
		{Name: "institutional_ownership", Category: contracts.CategoryPositioning, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: 100,
			Sources: []string{"positioning_13f", "positioning_daily"}},
		{Name: "insider_ownership", Category: contracts.CategoryPositioning, Direction: HigherIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: 100,
			Sources: []string{"positioning_daily"}},
		{Name: "short_pct_float", Category: contracts.CategoryPositioning, Direction: LowerIsBetter, Scale: ScaleAmbiguous, DetectThreshold: 1.5, Cap: 100,
			Sources: []string{"positioning_daily"}},
	}

	r, err := New(defs)
	if err != nil {
		// The default set is static; a bad entry is a programming error.
		panic(err)
	}
	return r
}
