package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/actuallystonmai/charts-service/internal/cache"
	"github.com/actuallystonmai/charts-service/internal/chart"
	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/metrics"
	"github.com/actuallystonmai/charts-service/internal/trending"
)

const (
	defaultLimit      = 10
	maxLimit          = 100
	defaultWindowDays = trending.DefaultWindowDays
	maxWindowDays     = 365
)

// Cache is the read-through cache in front of the engine. A nil Cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	ClearCharts(ctx context.Context, category domain.Category) error
}

type Deps struct {
	Aggregator *trending.Aggregator
	Global     *trending.GlobalMerger
	Builder    *chart.Builder
	Recorder   *chart.Recorder
	Snapshots  chart.SnapshotReader
	Cache      Cache
}

type Service struct {
	aggregator *trending.Aggregator
	global     *trending.GlobalMerger
	builder    *chart.Builder
	recorder   *chart.Recorder
	snapshots  chart.SnapshotReader
	cache      Cache
}

func NewService(d Deps) *Service {
	return &Service{
		aggregator: d.Aggregator,
		global:     d.Global,
		builder:    d.Builder,
		recorder:   d.Recorder,
		snapshots:  d.Snapshots,
		cache:      d.Cache,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	} else if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func clampWindow(days int) int {
	if days <= 0 {
		return defaultWindowDays
	} else if days > maxWindowDays {
		return maxWindowDays
	}
	return days
}

func (s *Service) GetTrending(ctx context.Context, category domain.Category, limit, days int) (*domain.TrendingResult, error) {
	limit, days = clampLimit(limit), clampWindow(days)
	key := cache.TrendingKey(category, limit, days)

	var cached []domain.ScoredItem
	if s.cacheGet(ctx, "trending", key, &cached) {
		return &domain.TrendingResult{Items: cached, CacheHit: true}, nil
	}

	items, err := s.aggregator.Aggregate(ctx, category, days, 0)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", category, err)
	}
	ranked := trending.Rank(items, limit)

	s.cacheSet(ctx, key, ranked)
	return &domain.TrendingResult{Items: ranked}, nil
}

func (s *Service) GetTrendingGlobal(ctx context.Context, limit, days int) (*domain.GlobalResult, error) {
	limit, days = clampLimit(limit), clampWindow(days)
	key := cache.GlobalKey(limit, days)

	var cached []domain.RankedGlobalItem
	if s.cacheGet(ctx, "trending_global", key, &cached) {
		return &domain.GlobalResult{Items: cached, CacheHit: true}, nil
	}

	items, err := s.global.Merge(ctx, limit, days)
	if err != nil {
		return nil, fmt.Errorf("merge global trending: %w", err)
	}

	s.cacheSet(ctx, key, items)
	return &domain.GlobalResult{Items: items}, nil
}

// GetCharts builds a chart, or serves it from cache. A cache hit does not
// rebuild and therefore does not notify: subscribers see one rankings event
// per cache fill, not one per request.
func (s *Service) GetCharts(ctx context.Context, category domain.Category, region string, sort domain.SortView, limit int) (*domain.ChartResult, error) {
	limit = clampLimit(limit)
	if sort == "" {
		sort = domain.SortThisWeek
	}
	key := cache.ChartKey(category, region, sort, limit)

	var cached []domain.ChartItem
	if s.cacheGet(ctx, "charts", key, &cached) {
		return &domain.ChartResult{Items: cached, CacheHit: true}, nil
	}

	items, err := s.builder.Build(ctx, chart.Request{Category: category, Region: region, Sort: sort, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("build %s chart: %w", category, err)
	}

	s.cacheSet(ctx, key, items)
	return &domain.ChartResult{Items: items}, nil
}

func (s *Service) GetSnapshot(ctx context.Context, category domain.Category, week string) (*domain.ChartSnapshot, error) {
	if _, err := domain.ParseWeekKey(week); err != nil {
		return nil, err
	}
	snap, err := s.snapshots.GetSnapshot(ctx, category, week)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	if snap == nil {
		return nil, domain.ErrSnapshotNotFound
	}
	return snap, nil
}

// RecordSnapshots writes the current week's snapshot of each category in
// turn, capturing per-category errors.
func (s *Service) RecordSnapshots(ctx context.Context, categories []domain.Category) []domain.SnapshotStatus {
	results := make([]domain.SnapshotStatus, 0, len(categories))
	for _, category := range categories {
		snap, err := s.recorder.Record(ctx, category)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("category", string(category)).Msg("record snapshot failed")
			code, msg := categorizeError(err)
			results = append(results, domain.SnapshotStatus{
				Category: category,
				Status:   domain.StatusFailed,
				Error:    code,
				Message:  msg,
			})
			continue
		}

		if s.cache != nil {
			if err := s.cache.ClearCharts(ctx, category); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("category", string(category)).Msg("chart cache invalidation failed")
			}
		}
		results = append(results, domain.SnapshotStatus{
			Category: category,
			Week:     snap.Week,
			Entries:  len(snap.Entries),
			Status:   domain.StatusSuccess,
		})
	}
	return results
}

func (s *Service) cacheGet(ctx context.Context, op, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	if found {
		metrics.CacheHits.WithLabelValues(op).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(op).Inc()
	return false
}

func (s *Service) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Handle response error
func categorizeError(err error) (string, string) {
	if errors.Is(err, domain.ErrDataUnavailable) {
		return "data_unavailable", "content data is temporarily unavailable"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "request_timeout", "request timed out"
	}
	return "internal_error", "an unexpected error occurred"
}
