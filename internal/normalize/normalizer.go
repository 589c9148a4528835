package normalize

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/internal/registry"
	"github.com/argie33/algo-sub009/pkg/logger"
)

// Config controls the cross-sectional percentile pass.
type Config struct {
	WinsorizeLowerPct float64
	WinsorizeUpperPct float64

	// MinUniverseSize is the minimum number of symbols with any valid value
	// in a category before percentiles are meaningful. Below it the pass is
	// treated as a universe sync failure for that category/date.
	MinUniverseSize int
}

// Normalizer converts raw metric values into cross-sectional percentile
// factor scores. It consults the metric registry for direction, unit scale,
// caps, and source priority; no per-metric decision is made at call sites.
type Normalizer struct {
	reg     *registry.Registry
	cfg     Config
	version string
	logger  *logger.Logger
}

// New creates a normalizer.
func New(reg *registry.Registry, cfg Config, version string, log *logger.Logger) *Normalizer {
	return &Normalizer{
		reg:     reg,
		cfg:     cfg,
		version: version,
		logger:  log,
	}
}

// ScoreCategory produces one FactorScore per symbol for a category from the
// full universe's raw records on a date.
//
// A symbol with no valid value for a metric contributes nothing to that
// metric and is excluded from its ranking; a symbol with zero valid metrics
// in the whole category gets no FactorScore row at all.
func (n *Normalizer) ScoreCategory(ctx context.Context, date time.Time, cat contracts.Category, records []contracts.MetricRecord) ([]contracts.FactorScore, error) {
	defs := n.reg.Category(cat)
	if len(defs) == 0 {
		return nil, fmt.Errorf("category %s: no metrics registered", cat)
	}

	byMetric := groupByMetric(records)

	universe := make(map[string]struct{})
	for _, bySymbol := range byMetric {
		for symbol := range bySymbol {
			universe[symbol] = struct{}{}
		}
	}
	if len(universe) < n.cfg.MinUniverseSize {
		return nil, fmt.Errorf("category %s on %s: %d symbols with data, need %d: %w",
			cat, date.Format("2006-01-02"), len(universe), n.cfg.MinUniverseSize, contracts.ErrUniverseSync)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bySymbol := resolveSources(def, byMetric[def.Name])
		symbols, values := collectValid(bySymbol)
		if len(symbols) < 2 {
			// A single observation has no cross-section to rank against.
			continue
		}

		values = canonicalize(def, values)
		values = winsorize(values, n.cfg.WinsorizeLowerPct, n.cfg.WinsorizeUpperPct)

		ranks := percentileRanks(values)
		for i, symbol := range symbols {
			rank := ranks[i]
			if def.Direction == registry.LowerIsBetter {
				rank = 100 - rank
			}
			sums[symbol] += rank
			counts[symbol]++
		}
	}

	scores := make([]contracts.FactorScore, 0, len(counts))
	for symbol, count := range counts {
		scores = append(scores, contracts.FactorScore{
			Symbol:          symbol,
			Date:            date,
			Category:        cat,
			PercentileScore: sums[symbol] / float64(count),
			MetricCount:     count,
			PipelineVersion: n.version,
		})
	}

	// Map iteration order must never leak into output.
	sort.Slice(scores, func(i, j int) bool { return scores[i].Symbol < scores[j].Symbol })

	n.logger.WithFields(map[string]interface{}{
		"category": string(cat),
		"date":     date.Format("2006-01-02"),
		"universe": len(universe),
		"scored":   len(scores),
	}).Debug("Scored category")

	return scores, nil
}

// groupByMetric indexes records by metric name then symbol, keeping every
// delivered row so source resolution can pick among them.
func groupByMetric(records []contracts.MetricRecord) map[string]map[string][]contracts.MetricRecord {
	byMetric := make(map[string]map[string][]contracts.MetricRecord)
	for _, rec := range records {
		bySymbol, ok := byMetric[rec.MetricName]
		if !ok {
			bySymbol = make(map[string][]contracts.MetricRecord)
			byMetric[rec.MetricName] = bySymbol
		}
		bySymbol[rec.Symbol] = append(bySymbol[rec.Symbol], rec)
	}
	return byMetric
}

// resolveSources picks one value per symbol when the loader delivered rows
// from more than one source table. The registry's declared priority decides;
// rows from undeclared sources rank behind every declared one, and ties keep
// the first-delivered row.
func resolveSources(def registry.MetricDef, bySymbol map[string][]contracts.MetricRecord) map[string]float64 {
	rank := func(source string) int {
		for i, s := range def.Sources {
			if s == source {
				return i
			}
		}
		return len(def.Sources)
	}

	out := make(map[string]float64, len(bySymbol))
	for symbol, rows := range bySymbol {
		best := rows[0]
		bestRank := rank(best.Source)
		for _, row := range rows[1:] {
			if r := rank(row.Source); r < bestRank {
				best, bestRank = row, r
			}
		}
		out[symbol] = best.RawValue
	}
	return out
}

// collectValid extracts finite values in deterministic symbol order.
// NaN and Inf observations are treated as missing, never substituted.
func collectValid(bySymbol map[string]float64) ([]string, []float64) {
	symbols := make([]string, 0, len(bySymbol))
	for symbol, v := range bySymbol {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	values := make([]float64, len(symbols))
	for i, symbol := range symbols {
		values[i] = bySymbol[symbol]
	}
	return symbols, values
}

// canonicalize converts a metric's cross-section to its canonical scale and
// applies the declared storage cap.
//
// Ambiguous metrics are classified once per cross-section: a median absolute
// value above the declared threshold means the values arrived as 0-100
// percent; otherwise they arrived as 0-1 fractions and are scaled up. The
// classification is per metric per date, never per row.
func canonicalize(def registry.MetricDef, values []float64) []float64 {
	multiplier := 1.0
	switch def.Scale {
	case registry.ScaleFraction:
		multiplier = 100
	case registry.ScaleAmbiguous:
		if medianAbs(values) <= def.DetectThreshold {
			multiplier = 100
		}
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = clampAbs(v*multiplier, def.Cap)
	}
	return out
}
