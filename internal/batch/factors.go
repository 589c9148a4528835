package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/argie33/algo-sub009/internal/contracts"
)

// runFactorStage executes the cross-sectional pass for every category in
// parallel and returns all factor scores written.
//
// A category whose universe snapshot is incomplete for the date is skipped
// with a warning: its scores stay absent rather than being ranked against a
// partial universe. Store failures abort the run.
func (r *Runner) runFactorStage(ctx context.Context, date time.Time, record *contracts.RunRecord) ([]contracts.FactorScore, error) {
	started := time.Now()
	defer r.observeStage(componentFactors, started)

	var mu sync.Mutex
	var all []contracts.FactorScore

	g, gctx := errgroup.WithContext(ctx)
	for _, cat := range contracts.Categories() {
		cat := cat
		g.Go(func() error {
			scores, err := r.scoreCategory(gctx, date, cat)
			if err != nil {
				return err
			}
			if scores == nil {
				return nil
			}

			mu.Lock()
			all = append(all, scores...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	record.FactorRows = len(all)
	return all, nil
}

func (r *Runner) scoreCategory(ctx context.Context, date time.Time, cat contracts.Category) ([]contracts.FactorScore, error) {
	log := r.logger.WithFields(map[string]interface{}{
		"category": string(cat),
		"date":     date.Format("2006-01-02"),
	})

	loaded, err := r.deps.Metrics.CategoryLoaded(ctx, date, cat)
	if err != nil {
		return nil, fmt.Errorf("check load stamp for %s: %w", cat, err)
	}
	if !loaded {
		log.Warn("category universe not loaded, skipping")
		return nil, nil
	}

	records, err := r.deps.Metrics.GetCategoryMetrics(ctx, date, cat)
	if err != nil {
		return nil, fmt.Errorf("read metrics for %s: %w", cat, err)
	}

	scores, err := r.normalizer.ScoreCategory(ctx, date, cat, records)
	if err != nil {
		if errors.Is(err, contracts.ErrUniverseSync) {
			log.WithError(err).Warn("universe too small for ranking, skipping category")
			return nil, nil
		}
		return nil, fmt.Errorf("score category %s: %w", cat, err)
	}

	if err := r.pace(ctx); err != nil {
		return nil, err
	}
	if err := r.deps.Factors.UpsertFactorScores(ctx, scores); err != nil {
		return nil, fmt.Errorf("upsert factor scores for %s: %w", cat, err)
	}

	if r.deps.Recorder != nil {
		r.deps.Recorder.FactorRows(string(cat), len(scores))
	}
	log.WithField("rows", len(scores)).Info("category scored")
	return scores, nil
}

// runCompositeStage blends the factor scores into composite scores. It runs
// strictly after the factor stage so every category the date supports is in.
func (r *Runner) runCompositeStage(ctx context.Context, date time.Time, factorScores []contracts.FactorScore, record *contracts.RunRecord) error {
	started := time.Now()
	defer r.observeStage(componentComposite, started)

	composites := r.aggregator.Build(date, factorScores)
	record.CompositeRows = len(composites)
	if len(composites) == 0 {
		r.logger.WithField("date", date.Format("2006-01-02")).Warn("no composite scores produced")
		return nil
	}

	if err := r.pace(ctx); err != nil {
		return err
	}
	if err := r.deps.Composites.UpsertCompositeScores(ctx, composites); err != nil {
		return fmt.Errorf("upsert composite scores: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"date": date.Format("2006-01-02"),
		"rows": len(composites),
	}).Info("composite scores written")
	return nil
}
