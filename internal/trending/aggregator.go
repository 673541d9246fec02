// Package trending scores content by engagement and ranks it, per category
// and across all categories.
package trending

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/metrics"
)

const (
	DefaultWindowDays = 7

	// SparseWindowThreshold is the minimum number of items a recency window
	// must hold. Below it the whole category history is used instead.
	SparseWindowThreshold = 5
)

// ContentReader lists the content of one category.
type ContentReader interface {
	FindByCategory(ctx context.Context, category domain.Category, filter domain.ContentFilter) ([]domain.ContentItem, error)
}

// ViewCounter sums view analytics per item. An empty week sums every week.
// Items without analytics rows are absent from the result.
type ViewCounter interface {
	SumViews(ctx context.Context, itemIDs []string, category domain.Category, week string) (map[string]int64, error)
}

type Aggregator struct {
	content ContentReader
	views   ViewCounter
	now     func() time.Time
}

func NewAggregator(content ContentReader, views ViewCounter) *Aggregator {
	return &Aggregator{content: content, views: views, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Aggregate scores the items of category created within the last windowDays.
// A limit of zero means uncapped. The result is unordered.
func (a *Aggregator) Aggregate(ctx context.Context, category domain.Category, windowDays, limit int) ([]domain.ScoredItem, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	since := a.now().AddDate(0, 0, -windowDays)
	items, err := a.content.FindByCategory(ctx, category, domain.ContentFilter{CreatedAfter: since, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s content: %w", domain.ErrDataUnavailable, category, err)
	}

	if len(items) < SparseWindowThreshold {
		logging.Ctx(ctx).Warn().
			Str("category", string(category)).
			Int("window_days", windowDays).
			Int("found", len(items)).
			Msg("sparse trending window, using full history")
		metrics.SparseWindowFallbacks.WithLabelValues(string(category)).Inc()

		items, err = a.content.FindByCategory(ctx, category, domain.ContentFilter{Limit: limit})
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s content: %w", domain.ErrDataUnavailable, category, err)
		}
	}

	if len(items) == 0 {
		return []domain.ScoredItem{}, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = domain.Normalize(item).ID
	}
	sums, err := a.views.SumViews(ctx, ids, category, "")
	if err != nil {
		return nil, fmt.Errorf("%w: sum %s views: %w", domain.ErrDataUnavailable, category, err)
	}

	scored := make([]domain.ScoredItem, 0, len(items))
	for _, item := range items {
		scored = append(scored, Score(domain.Normalize(item), sums))
	}
	return scored, nil
}

// Score resolves the view count of e from analytics sums, falling back to
// the lifetime counter, and computes its trending score.
func Score(e domain.Engagement, sums map[string]int64) domain.ScoredItem {
	views, ok := sums[e.ID]
	if !ok {
		views = e.Counters.Views
	}
	return domain.ScoredItem{
		Item:          e,
		ViewCount:     views,
		TrendingScore: domain.TrendingScore(views, e.Counters.Likes, e.Counters.Shares, e.Counters.Downloads),
	}
}
