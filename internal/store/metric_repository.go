package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// MetricRepository reads the raw metric snapshots written by the upstream
// loader. The engine never writes to these tables.
type MetricRepository struct {
	pool *pgxpool.Pool
}

// NewMetricRepository creates a new metric repository.
func NewMetricRepository(pool *pgxpool.Pool) *MetricRepository {
	return &MetricRepository{pool: pool}
}

// GetCategoryMetrics returns every raw metric record for one category across
// the universe on a date, ordered for deterministic downstream iteration.
func (r *MetricRepository) GetCategoryMetrics(ctx context.Context, date time.Time, category contracts.Category) ([]contracts.MetricRecord, error) {
	query := `
		SELECT symbol, metric_date, category, metric_name, raw_value, COALESCE(source, '')
		FROM data.raw_metrics
		WHERE metric_date = $1 AND category = $2
		ORDER BY symbol, metric_name
	`

	rows, err := r.pool.Query(ctx, query, date, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []contracts.MetricRecord
	for rows.Next() {
		var m contracts.MetricRecord
		if err := rows.Scan(&m.Symbol, &m.Date, &m.Category, &m.MetricName, &m.RawValue, &m.Source); err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	return records, rows.Err()
}

// CategoryLoaded reports whether the loader stamped the category's universe
// snapshot for the date as complete. No stamp means not loaded.
func (r *MetricRepository) CategoryLoaded(ctx context.Context, date time.Time, category contracts.Category) (bool, error) {
	query := `
		SELECT complete
		FROM data.metric_loads
		WHERE metric_date = $1 AND category = $2
	`

	var complete bool
	err := r.pool.QueryRow(ctx, query, date, string(category)).Scan(&complete)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return complete, nil
}
