package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/argie33/algo-sub009/internal/composite"
	"github.com/argie33/algo-sub009/internal/contracts"
	"github.com/argie33/algo-sub009/internal/indicators"
	"github.com/argie33/algo-sub009/internal/normalize"
	"github.com/argie33/algo-sub009/internal/registry"
	"github.com/argie33/algo-sub009/internal/scoringconfig"
	"github.com/argie33/algo-sub009/internal/signals"
	"github.com/argie33/algo-sub009/pkg/config"
	"github.com/argie33/algo-sub009/pkg/logger"
	"github.com/argie33/algo-sub009/pkg/metrics"
	"github.com/argie33/algo-sub009/pkg/redis"
)

// historyBars bounds the bar history fetched per symbol. The longest
// consumer is the 252-day rate of change, which needs 253 bars.
const historyBars = 300

const (
	componentFactors   = "factors"
	componentComposite = "composite"
	componentTechnical = "technical"
)

// ErrRunLocked means another batch already holds the date's run lock.
var ErrRunLocked = errors.New("batch already running for date")

// StatusCacher publishes the latest run outcome for cheap status reads.
type StatusCacher interface {
	SetLatest(ctx context.Context, payload []byte) error
}

// Deps are the external dependencies of a batch run. Lock, Status, and
// Recorder are optional; nil disables them.
type Deps struct {
	Metrics    contracts.MetricReader
	Prices     contracts.PriceReader
	Factors    contracts.FactorScoreWriter
	Composites contracts.CompositeScoreWriter
	SymbolDays contracts.SymbolDayWriter
	Runs       contracts.RunLedger

	Lock     *redis.RunLock
	Status   StatusCacher
	Recorder *metrics.Recorder
}

// Runner orchestrates the daily pipeline: the cross-sectional factor pass,
// the composite pass behind its barrier, and the symbol-parallel technical
// pass. One Runner serves many dates.
type Runner struct {
	sc       *scoringconfig.Config
	batchCfg config.BatchConfig
	deps     Deps
	logger   *logger.Logger

	normalizer *normalize.Normalizer
	aggregator *composite.Aggregator
	engine     *indicators.Engine
	generator  *signals.Generator

	// limiter paces derived-row upserts so a full-universe rerun cannot
	// saturate the shared database. Nil means unpaced.
	limiter *rate.Limiter

	configHash string
}

// NewRunner wires the pipeline components from the strategy config.
func NewRunner(sc *scoringconfig.Config, batchCfg config.BatchConfig, deps Deps, log *logger.Logger) (*Runner, error) {
	hash, err := scoringconfig.Hash(sc)
	if err != nil {
		return nil, fmt.Errorf("hash strategy config: %w", err)
	}

	version := sc.Meta.PipelineVersion

	aggregator, err := composite.New(composite.Config{
		Weights:           weightsMap(sc.Weights),
		MinPresentFactors: sc.Composite.MinPresentFactors,
	}, version, log)
	if err != nil {
		return nil, fmt.Errorf("build aggregator: %w", err)
	}

	r := &Runner{
		sc:       sc,
		batchCfg: batchCfg,
		deps:     deps,
		logger:   log.WithComponent("batch"),
		normalizer: normalize.New(registry.Default(), normalize.Config{
			WinsorizeLowerPct: sc.Normalization.WinsorizeLowerPct,
			WinsorizeUpperPct: sc.Normalization.WinsorizeUpperPct,
			MinUniverseSize:   sc.Normalization.MinUniverseSize,
		}, version, log),
		aggregator: aggregator,
		engine: indicators.New(indicators.Config{
			SMAPeriods:   sc.Indicators.SMAPeriods,
			RSIPeriod:    sc.Indicators.RSIPeriod,
			MACDFast:     sc.Indicators.MACDFast,
			MACDSlow:     sc.Indicators.MACDSlow,
			MACDSignal:   sc.Indicators.MACDSignal,
			ATRPeriod:    sc.Indicators.ATRPeriod,
			ROCHorizons:  sc.Indicators.ROCHorizons,
			RatioCeiling: sc.Indicators.RatioCeiling,
		}, version, log),
		generator: signals.New(signals.Config{
			ATRStopMultMin:    sc.Signals.ATRStopMultMin,
			ATRStopMultMax:    sc.Signals.ATRStopMultMax,
			TargetRiskReward:  sc.Signals.TargetRiskReward,
			PivotLookback:     sc.Signals.PivotLookback,
			ZeroVolumeWindow:  sc.Signals.ZeroVolumeWindow,
			ZeroVolumeMaxFrac: sc.Signals.ZeroVolumeMaxFrac,
		}, version, log),
		configHash: hash,
	}

	if batchCfg.WriteRatePerSec > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(batchCfg.WriteRatePerSec), batchCfg.WriteRatePerSec)
	}

	return r, nil
}

// Run executes the full pipeline for one date and records the outcome in
// the run ledger. The returned record is also written on failure.
func (r *Runner) Run(ctx context.Context, date time.Time) (*contracts.RunRecord, error) {
	runID := fmt.Sprintf("%s-%d", date.Format("20060102"), time.Now().UnixNano())
	started := time.Now()

	log := r.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"date":   date.Format("2006-01-02"),
	})

	if r.deps.Lock != nil {
		ok, err := r.deps.Lock.Acquire(ctx, date, runID)
		if err != nil {
			return nil, fmt.Errorf("acquire run lock: %w", err)
		}
		if !ok {
			return nil, ErrRunLocked
		}
		defer func() {
			if err := r.deps.Lock.Release(context.Background(), date, runID); err != nil {
				log.WithError(err).Warn("release run lock")
			}
		}()
	}

	log.Info("batch run started")

	record := &contracts.RunRecord{
		RunID:           runID,
		Date:            date,
		PipelineVersion: r.sc.Meta.PipelineVersion,
		ConfigHash:      r.configHash,
		Status:          contracts.RunStatusCompleted,
		StartedAt:       started,
	}

	runErr := r.runStages(ctx, date, record)
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			record.Status = contracts.RunStatusCancelled
		} else {
			record.Status = contracts.RunStatusFailed
		}
		record.Error = runErr.Error()
	}
	record.Duration = time.Since(started)

	if err := r.deps.Runs.RecordRun(context.Background(), record); err != nil {
		log.WithError(err).Error("record run in ledger")
	}
	r.cacheLatest(record, log)

	if runErr != nil {
		log.WithError(runErr).Error("batch run finished with error")
		return record, runErr
	}

	log.WithFields(map[string]interface{}{
		"symbols":        record.SymbolsTotal,
		"failed":         record.SymbolsFailed,
		"factor_rows":    record.FactorRows,
		"composite_rows": record.CompositeRows,
		"signal_rows":    record.SignalRows,
		"duration":       record.Duration.String(),
	}).Info("batch run completed")

	return record, nil
}

// RunFactors executes only the cross-sectional factor pass and the
// composite pass for ad-hoc reruns. Partial runs are not ledgered.
func (r *Runner) RunFactors(ctx context.Context, date time.Time) (*contracts.RunRecord, error) {
	record := &contracts.RunRecord{
		Date:            date,
		PipelineVersion: r.sc.Meta.PipelineVersion,
		ConfigHash:      r.configHash,
		Status:          contracts.RunStatusCompleted,
		StartedAt:       time.Now(),
	}

	scores, err := r.runFactorStage(ctx, date, record)
	if err == nil {
		err = r.runCompositeStage(ctx, date, scores, record)
	}
	record.Duration = time.Since(record.StartedAt)
	if err != nil {
		record.Status = contracts.RunStatusFailed
		record.Error = err.Error()
		return record, err
	}
	return record, nil
}

// RunTechnical executes only the symbol-local indicator and signal pass.
// Partial runs are not ledgered.
func (r *Runner) RunTechnical(ctx context.Context, date time.Time) (*contracts.RunRecord, error) {
	record := &contracts.RunRecord{
		Date:            date,
		PipelineVersion: r.sc.Meta.PipelineVersion,
		ConfigHash:      r.configHash,
		Status:          contracts.RunStatusCompleted,
		StartedAt:       time.Now(),
	}

	err := r.runTechnicalStage(ctx, date, record)
	record.Duration = time.Since(record.StartedAt)
	if err != nil {
		record.Status = contracts.RunStatusFailed
		record.Error = err.Error()
		return record, err
	}
	return record, nil
}

func (r *Runner) runStages(ctx context.Context, date time.Time, record *contracts.RunRecord) error {
	factorScores, err := r.runFactorStage(ctx, date, record)
	if err != nil {
		return fmt.Errorf("factor stage: %w", err)
	}

	// Barrier: the composite pass only starts once every category's
	// cross-sectional pass has finished.
	if err := r.runCompositeStage(ctx, date, factorScores, record); err != nil {
		return fmt.Errorf("composite stage: %w", err)
	}

	if err := r.runTechnicalStage(ctx, date, record); err != nil {
		return fmt.Errorf("technical stage: %w", err)
	}
	return nil
}

// cacheLatest publishes the finished record to the status cache. The cache
// is advisory: a write failure is logged, never surfaced as a run error.
func (r *Runner) cacheLatest(record *contracts.RunRecord, log *logger.Logger) {
	if r.deps.Status == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		log.WithError(err).Warn("encode latest run status")
		return
	}
	if err := r.deps.Status.SetLatest(context.Background(), payload); err != nil {
		log.WithError(err).Warn("cache latest run status")
	}
}

func (r *Runner) pace(ctx context.Context) error {
	if r.limiter == nil {
		return nil
	}
	return r.limiter.Wait(ctx)
}

func (r *Runner) observeStage(stage string, started time.Time) {
	if r.deps.Recorder != nil {
		r.deps.Recorder.StageDuration(stage, time.Since(started).Seconds())
	}
}

func weightsMap(w scoringconfig.Weights) map[contracts.Category]float64 {
	return map[contracts.Category]float64{
		contracts.CategoryQuality:     w.Quality,
		contracts.CategoryGrowth:      w.Growth,
		contracts.CategoryValue:       w.Value,
		contracts.CategoryMomentum:    w.Momentum,
		contracts.CategoryStability:   w.Stability,
		contracts.CategoryPositioning: w.Positioning,
	}
}
