package commands

import (
	"fmt"
	"time"

	"github.com/argie33/algo-sub009/internal/batch"
	"github.com/argie33/algo-sub009/internal/scoringconfig"
	"github.com/argie33/algo-sub009/internal/store"
	"github.com/argie33/algo-sub009/pkg/config"
	"github.com/argie33/algo-sub009/pkg/database"
	"github.com/argie33/algo-sub009/pkg/logger"
	"github.com/argie33/algo-sub009/pkg/metrics"
	"github.com/argie33/algo-sub009/pkg/redis"
)

// runLockTTL bounds how long a crashed batch can hold its date lock.
const runLockTTL = 4 * time.Hour

// statusTTL bounds how long the cached latest-run outcome outlives the last
// batch; a longer gap means the ledger is the only source worth trusting.
const statusTTL = 48 * time.Hour

// app holds the wired dependencies a command needs. Built once per
// invocation, closed when the command finishes.
type app struct {
	cfg      *config.Config
	strategy *scoringconfig.Config
	log      *logger.Logger
	db       *database.DB
	rdb      *redis.Client
	status   *redis.StatusCache
	runner   *batch.Runner
	recorder *metrics.Recorder
}

// initApp loads config, connects infrastructure, and wires the pipeline.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	strategy, err := loadStrategy(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	status := redis.NewStatusCache(rdb, "scores", statusTTL)

	deps := batch.Deps{
		Metrics:    store.NewMetricRepository(db.Pool),
		Prices:     store.NewPriceRepository(db.Pool),
		Factors:    store.NewFactorRepository(db.Pool),
		Composites: store.NewCompositeRepository(db.Pool),
		SymbolDays: store.NewSymbolDayRepository(db.Pool),
		Runs:       store.NewRunRepository(db.Pool),
		Lock:       redis.NewRunLock(rdb, "scores", runLockTTL),
		Status:     status,
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.New()
		deps.Recorder = recorder
	}

	runner, err := batch.NewRunner(strategy, cfg.Batch, deps, log)
	if err != nil {
		rdb.Close()
		db.Close()
		return nil, fmt.Errorf("build runner: %w", err)
	}

	return &app{
		cfg:      cfg,
		strategy: strategy,
		log:      log,
		db:       db,
		rdb:      rdb,
		status:   status,
		runner:   runner,
		recorder: recorder,
	}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// loadStrategy resolves the strategy YAML: the --strategy flag wins, then
// STRATEGY_CONFIG, then built-in defaults.
func loadStrategy(cfg *config.Config) (*scoringconfig.Config, error) {
	path := strategyFile
	if path == "" {
		path = cfg.Batch.StrategyPath
	}
	if path == "" {
		return scoringconfig.Default(), nil
	}

	strategy, err := scoringconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load strategy %s: %w", path, err)
	}
	return strategy, nil
}

// parseDate reads a --date value, defaulting to today (UTC).
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return date, nil
}
