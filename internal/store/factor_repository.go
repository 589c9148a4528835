package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// FactorRepository persists factor scores keyed by (symbol, date, category).
type FactorRepository struct {
	pool *pgxpool.Pool
}

// NewFactorRepository creates a new factor score repository.
func NewFactorRepository(pool *pgxpool.Pool) *FactorRepository {
	return &FactorRepository{pool: pool}
}

// UpsertFactorScores writes the scores in one batch. Rows collide only on
// their own (symbol, date, category) key, so concurrent calls for disjoint
// symbol sets are safe.
func (r *FactorRepository) UpsertFactorScores(ctx context.Context, scores []contracts.FactorScore) error {
	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO scores.factor_scores
			(symbol, score_date, category, percentile_score, metric_count, pipeline_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (symbol, score_date, category) DO UPDATE SET
			percentile_score = EXCLUDED.percentile_score,
			metric_count = EXCLUDED.metric_count,
			pipeline_version = EXCLUDED.pipeline_version,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, s := range scores {
		batch.Queue(query, s.Symbol, s.Date, string(s.Category), s.PercentileScore, s.MetricCount, s.PipelineVersion)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range scores {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
