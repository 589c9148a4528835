package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// RunRepository records batch runs in the pipeline run ledger.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run ledger repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// RecordRun writes one ledger row. Run IDs are unique per invocation, so
// this is a plain insert.
func (r *RunRepository) RecordRun(ctx context.Context, run *contracts.RunRecord) error {
	query := `
		INSERT INTO scores.pipeline_runs
			(run_id, run_date, pipeline_version, config_hash, status,
			 symbols_total, symbols_failed, factor_rows, composite_rows, signal_rows,
			 started_at, duration_ms, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		run.RunID, run.Date, run.PipelineVersion, run.ConfigHash, string(run.Status),
		run.SymbolsTotal, run.SymbolsFailed, run.FactorRows, run.CompositeRows, run.SignalRows,
		run.StartedAt, run.Duration.Milliseconds(), run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.RunID, err)
	}
	return nil
}

// LatestRuns returns the most recent ledger rows, newest first.
func (r *RunRepository) LatestRuns(ctx context.Context, limit int) ([]contracts.RunRecord, error) {
	query := `
		SELECT run_id, run_date, pipeline_version, config_hash, status,
			   symbols_total, symbols_failed, factor_rows, composite_rows, signal_rows,
			   started_at, duration_ms, error_message
		FROM scores.pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []contracts.RunRecord
	for rows.Next() {
		var run contracts.RunRecord
		var durationMs int64
		if err := rows.Scan(
			&run.RunID, &run.Date, &run.PipelineVersion, &run.ConfigHash, &run.Status,
			&run.SymbolsTotal, &run.SymbolsFailed, &run.FactorRows, &run.CompositeRows, &run.SignalRows,
			&run.StartedAt, &durationMs, &run.Error,
		); err != nil {
			return nil, err
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
