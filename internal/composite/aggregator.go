package composite

import (
	"fmt"
	"sort"
	"time"

	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/pkg/logger"
)

// Config controls composite aggregation.
type Config struct {
	// Weights are the declared target weights per category, summing to 1.0.
	Weights map[contracts.Category]float64

	// MinPresentFactors is the minimum number of present factor scores
	// before a composite is produced. Below it the symbol gets no row
	// rather than a low-confidence guess.
	MinPresentFactors int
}

// Aggregator blends factor percentile scores into one composite score per
// symbol, redistributing the weights of missing factors proportionally over
// the present ones.
type Aggregator struct {
	cfg     Config
	version string
	logger  *logger.Logger
}

// New creates an aggregator. Weights must cover all six categories.
func New(cfg Config, version string, log *logger.Logger) (*Aggregator, error) {
	for _, cat := range contracts.Categories() {
		if _, ok := cfg.Weights[cat]; !ok {
			return nil, fmt.Errorf("missing weight for category %s", cat)
		}
	}
	if cfg.MinPresentFactors < 1 {
		return nil, fmt.Errorf("min present factors must be >= 1, got %d", cfg.MinPresentFactors)
	}

	return &Aggregator{
		cfg:     cfg,
		version: version,
		logger:  log,
	}, nil
}

// Aggregate computes one symbol's composite from its present factor scores.
// Returns nil when the symbol has fewer than MinPresentFactors factors.
// Factor scores with a zero metric count are treated as absent.
func (a *Aggregator) Aggregate(symbol string, date time.Time, factors map[contracts.Category]contracts.FactorScore) *contracts.CompositeScore {
	present := make(map[contracts.Category]float64)
	weightSum := 0.0
	for _, cat := range contracts.Categories() {
		fs, ok := factors[cat]
		if !ok || fs.MetricCount <= 0 {
			continue
		}
		present[cat] = fs.PercentileScore
		weightSum += a.cfg.Weights[cat]
	}

	if len(present) < a.cfg.MinPresentFactors || weightSum <= 0 {
		return nil
	}

	weightsUsed := make(map[contracts.Category]float64, len(present))
	score := 0.0
	for cat, value := range present {
		effective := a.cfg.Weights[cat] / weightSum
		weightsUsed[cat] = effective
		score += value * effective
	}

	return &contracts.CompositeScore{
		Symbol:          symbol,
		Date:            date,
		Score:           score,
		Factors:         present,
		WeightsUsed:     weightsUsed,
		PipelineVersion: a.version,
	}
}

// Build aggregates the whole universe for a date. A failure on one symbol is
// logged and skipped; it never aborts the remaining universe.
func (a *Aggregator) Build(date time.Time, factorScores []contracts.FactorScore) []contracts.CompositeScore {
	bySymbol := make(map[string]map[contracts.Category]contracts.FactorScore)
	for _, fs := range factorScores {
		m, ok := bySymbol[fs.Symbol]
		if !ok {
			m = make(map[contracts.Category]contracts.FactorScore)
			bySymbol[fs.Symbol] = m
		}
		m[fs.Category] = fs
	}

	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	composites := make([]contracts.CompositeScore, 0, len(symbols))
	for _, symbol := range symbols {
		cs := a.aggregateSafe(symbol, date, bySymbol[symbol])
		if cs != nil {
			composites = append(composites, *cs)
		}
	}

	a.logger.WithFields(map[string]interface{}{
		"date":       date.Format("2006-01-02"),
		"symbols":    len(symbols),
		"composites": len(composites),
	}).Info("Composite aggregation completed")

	return composites
}

// aggregateSafe isolates one symbol's aggregation so a panic cannot take
// down the batch for the rest of the universe.
func (a *Aggregator) aggregateSafe(symbol string, date time.Time, factors map[contracts.Category]contracts.FactorScore) (cs *contracts.CompositeScore) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"date":   date.Format("2006-01-02"),
				"panic":  fmt.Sprint(r),
			}).Warn("Composite aggregation failed for symbol, skipping")
			cs = nil
		}
	}()

	return a.Aggregate(symbol, date, factors)
}
