package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// CompositeRepository persists composite scores keyed by (symbol, date).
// The per-factor breakdown and effective weights go into jsonb columns so
// the dashboard can explain a score without re-deriving it.
type CompositeRepository struct {
	pool *pgxpool.Pool
}

// NewCompositeRepository creates a new composite score repository.
func NewCompositeRepository(pool *pgxpool.Pool) *CompositeRepository {
	return &CompositeRepository{pool: pool}
}

// UpsertCompositeScores writes the scores in one batch.
func (r *CompositeRepository) UpsertCompositeScores(ctx context.Context, scores []contracts.CompositeScore) error {
	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO scores.composite_scores
			(symbol, score_date, score, factors, weights_used, pipeline_version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (symbol, score_date) DO UPDATE SET
			score = EXCLUDED.score,
			factors = EXCLUDED.factors,
			weights_used = EXCLUDED.weights_used,
			pipeline_version = EXCLUDED.pipeline_version,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, s := range scores {
		factors, err := json.Marshal(s.Factors)
		if err != nil {
			return fmt.Errorf("marshal factors for %s: %w", s.Symbol, err)
		}
		weights, err := json.Marshal(s.WeightsUsed)
		if err != nil {
			return fmt.Errorf("marshal weights for %s: %w", s.Symbol, err)
		}
		batch.Queue(query, s.Symbol, s.Date, s.Score, factors, weights, s.PipelineVersion)
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
