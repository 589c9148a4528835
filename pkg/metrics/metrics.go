package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline counters to Prometheus. Labels identify the
// component so per-stage failure rates are visible without log scraping.
type Recorder struct {
	symbolsProcessed *prometheus.CounterVec
	symbolsFailed    *prometheus.CounterVec
	factorRows       *prometheus.CounterVec
	batchDuration    *prometheus.HistogramVec
	lastRunSymbols   prometheus.Gauge
}

// New creates a Prometheus metrics recorder registered on the default registry.
func New() *Recorder {
	return &Recorder{
		symbolsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scores_symbols_processed_total",
				Help: "Symbols successfully processed, by pipeline component",
			},
			[]string{"component"},
		),
		symbolsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scores_symbols_failed_total",
				Help: "Symbols skipped after a compute failure, by pipeline component",
			},
			[]string{"component"},
		),
		factorRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scores_factor_rows_total",
				Help: "Factor score rows written, by category",
			},
			[]string{"category"},
		),
		batchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scores_batch_stage_duration_seconds",
				Help:    "Duration of batch pipeline stages",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
			[]string{"stage"},
		),
		lastRunSymbols: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "scores_last_run_symbols",
				Help: "Universe size of the most recent batch run",
			},
		),
	}
}

// SymbolProcessed records one successfully processed symbol.
func (r *Recorder) SymbolProcessed(component string) {
	r.symbolsProcessed.WithLabelValues(component).Inc()
}

// SymbolFailed records one skipped symbol.
func (r *Recorder) SymbolFailed(component string) {
	r.symbolsFailed.WithLabelValues(component).Inc()
}

// FactorRows records factor score rows written for a category.
func (r *Recorder) FactorRows(category string, n int) {
	r.factorRows.WithLabelValues(category).Add(float64(n))
}

// StageDuration records a pipeline stage duration in seconds.
func (r *Recorder) StageDuration(stage string, seconds float64) {
	r.batchDuration.WithLabelValues(stage).Observe(seconds)
}

// LastRunSymbols records the universe size of the latest run.
func (r *Recorder) LastRunSymbols(n int) {
	r.lastRunSymbols.Set(float64(n))
}
