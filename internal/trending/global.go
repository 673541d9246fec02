package trending

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/notify"
)

// CategoryScorer is the per-category half of the pipeline.
type CategoryScorer interface {
	Aggregate(ctx context.Context, category domain.Category, windowDays, limit int) ([]domain.ScoredItem, error)
}

// GlobalMerger ranks all categories against each other on raw score.
type GlobalMerger struct {
	scorer   CategoryScorer
	notifier notify.Notifier
}

func NewGlobalMerger(scorer CategoryScorer, notifier notify.Notifier) *GlobalMerger {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &GlobalMerger{scorer: scorer, notifier: notifier}
}

// Merge aggregates every category concurrently and merges the results.
// Any failing category fails the whole call.
func (m *GlobalMerger) Merge(ctx context.Context, limit, windowDays int) ([]domain.RankedGlobalItem, error) {
	perCategory := make([][]domain.ScoredItem, len(domain.Categories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range domain.Categories {
		g.Go(func() error {
			items, err := m.scorer.Aggregate(gctx, category, windowDays, 0)
			if err != nil {
				return err
			}
			// no category can contribute more than limit items
			perCategory[i] = Rank(items, limit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := MergeRanked(perCategory, limit)
	if len(merged) > 0 {
		notify.Publish(ctx, m.notifier, notify.EventGlobalTrending, merged)
	}
	return merged, nil
}

// MergeRanked concatenates the per-category lists in the order given, sorts
// them by descending score and assigns 1-based ranks to the first n.
func MergeRanked(perCategory [][]domain.ScoredItem, n int) []domain.RankedGlobalItem {
	var all []domain.ScoredItem
	for _, items := range perCategory {
		all = append(all, items...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TrendingScore > all[j].TrendingScore
	})
	if n < 0 {
		n = 0
	}
	if len(all) > n {
		all = all[:n]
	}

	out := make([]domain.RankedGlobalItem, len(all))
	for i, item := range all {
		out[i] = domain.RankedGlobalItem{ScoredItem: item, Rank: i + 1}
	}
	return out
}
