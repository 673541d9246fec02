// Package chart assembles weekly charts from trending rankings and the
// snapshot history, and records new weekly snapshots.
package chart

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/metrics"
	"github.com/actuallystonmai/charts-service/internal/notify"
	"github.com/actuallystonmai/charts-service/internal/trending"
)

const (
	// The candidate pool is wider than any response so that positions are
	// computed against the full chart, not the requested page.
	PoolWindowDays = 365
	PoolSize       = 200

	// unrankedSortKey orders items absent from last week's chart last.
	unrankedSortKey = 999
)

type SnapshotReader interface {
	GetSnapshot(ctx context.Context, category domain.Category, week string) (*domain.ChartSnapshot, error)
}

type Request struct {
	Category domain.Category
	// Region is copied to every item and does not affect selection.
	Region string
	Sort   domain.SortView
	Limit  int
}

// RankingsUpdate is the payload of notify.EventRankingsUpdated.
type RankingsUpdate struct {
	Category domain.Category    `json:"category"`
	Region   string             `json:"region"`
	Sort     domain.SortView    `json:"sort"`
	Items    []domain.ChartItem `json:"items"`
}

// PositionUpdate is the payload of notify.EventPositionUpdated.
type PositionUpdate struct {
	Category domain.Category `json:"category"`
	ItemID   string          `json:"itemId"`
	Position int             `json:"position"`
	LastWeek *int            `json:"lastWeek"`
	Peak     *int            `json:"peak"`
}

type Builder struct {
	scorer    trending.CategoryScorer
	views     trending.ViewCounter
	snapshots SnapshotReader
	notifier  notify.Notifier
	now       func() time.Time
}

func NewBuilder(scorer trending.CategoryScorer, views trending.ViewCounter, snapshots SnapshotReader, notifier notify.Notifier) *Builder {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Builder{
		scorer:    scorer,
		views:     views,
		snapshots: snapshots,
		notifier:  notifier,
		now:       time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Pool returns the ranked candidate pool of category.
func (b *Builder) Pool(ctx context.Context, category domain.Category) ([]domain.ScoredItem, error) {
	items, err := b.scorer.Aggregate(ctx, category, PoolWindowDays, PoolSize)
	if err != nil {
		return nil, err
	}
	return trending.Rank(items, PoolSize), nil
}

// Build assembles the chart of req.Category and publishes it.
func (b *Builder) Build(ctx context.Context, req Request) ([]domain.ChartItem, error) {
	start := time.Now()
	defer func() {
		metrics.ChartBuildDuration.WithLabelValues(string(req.Category)).Observe(time.Since(start).Seconds())
	}()

	pool, err := b.Pool(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	now := b.now()
	thisWeek := domain.WeekKey(now)
	lastWeek := domain.PreviousWeekKey(now)

	current, err := b.snapshots.GetSnapshot(ctx, req.Category, thisWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	previous, err := b.snapshots.GetSnapshot(ctx, req.Category, lastWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	if current == nil {
		logging.Ctx(ctx).Debug().Str("category", string(req.Category)).Str("week", thisWeek).
			Msg("no snapshot for current week, synthesizing from pool")
		current = Synthesize(req.Category, thisWeek, pool)
	}

	top := pool
	if req.Limit < len(top) {
		top = top[:max(req.Limit, 0)]
	}

	ids := make([]string, len(top))
	for i, item := range top {
		ids[i] = item.Item.ID
	}
	// chart views reflect this week only, while ranking uses the whole pool window
	weekViews, err := b.views.SumViews(ctx, ids, req.Category, thisWeek)
	if err != nil {
		return nil, fmt.Errorf("%w: sum weekly views: %w", domain.ErrDataUnavailable, err)
	}

	items := Assemble(top, current.EntryMap(), previous.EntryMap(), weekViews, req.Region)
	if err := SortItems(items, req.Sort); err != nil {
		return nil, err
	}

	if len(items) > 1 {
		b.publish(ctx, req, items)
	}
	return items, nil
}

func (b *Builder) publish(ctx context.Context, req Request, items []domain.ChartItem) {
	notify.Publish(ctx, b.notifier, notify.EventRankingsUpdated, RankingsUpdate{
		Category: req.Category,
		Region:   req.Region,
		Sort:     req.Sort,
		Items:    items,
	})
	for _, item := range items {
		notify.Publish(ctx, b.notifier, notify.EventPositionUpdated, PositionUpdate{
			Category: req.Category,
			ItemID:   item.ID,
			Position: item.Position,
			LastWeek: item.LastWeek,
			Peak:     item.Peak,
		})
	}
}

// Synthesize builds the implicit snapshot used when none was recorded for
// the week: position and peak are the pool rank, weeksOn is 1.
func Synthesize(category domain.Category, week string, pool []domain.ScoredItem) *domain.ChartSnapshot {
	entries := make([]domain.ChartEntry, len(pool))
	for i, item := range pool {
		entries[i] = domain.ChartEntry{ItemID: item.Item.ID, Position: i + 1, Peak: i + 1, WeeksOn: 1}
	}
	return &domain.ChartSnapshot{Category: category, Week: week, Entries: entries}
}

// Assemble converts ranked items into chart rows using the current and
// previous week's entries.
func Assemble(top []domain.ScoredItem, current, previous map[string]domain.ChartEntry, weekViews map[string]int64, region string) []domain.ChartItem {
	items := make([]domain.ChartItem, 0, len(top))
	for i, scored := range top {
		s := scored.Item
		entry, ok := current[s.ID]
		if !ok {
			// item drifted out of a persisted snapshot
			entry = domain.ChartEntry{ItemID: s.ID, Position: i + 1, Peak: i + 1, WeeksOn: 1}
		}

		item := domain.ChartItem{
			ID:          s.ID,
			Title:       s.Title,
			Artist:      s.Artist,
			Image:       s.Image,
			VideoURL:    s.VideoURL,
			Position:    entry.Position,
			WeeksOn:     entry.WeeksOn,
			Region:      region,
			Genre:       s.Genre,
			ReleaseDate: s.ReleasedAt,
			Snippet:     s.Snippet,
			Stats: domain.ChartStats{
				Plays:     s.Counters.Views,
				Downloads: s.Counters.Downloads,
				Likes:     s.Counters.Likes,
				Views:     weekViews[s.ID],
				Shares:    s.Counters.Shares,
				Comments:  s.Counters.Comments,
			},
		}
		if entry.Peak > 0 {
			peak := entry.Peak
			item.Peak = &peak
		}
		// last week's figure is that entry's peak
		if prev, ok := previous[s.ID]; ok {
			lw := prev.Peak
			item.LastWeek = &lw
		}
		items = append(items, item)
	}
	return items
}

// SortItems orders items in place for the requested view.
func SortItems(items []domain.ChartItem, view domain.SortView) error {
	switch view {
	case domain.SortThisWeek, "":
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Position < items[j].Position
		})
	case domain.SortLastWeek:
		key := func(it domain.ChartItem) int {
			if it.LastWeek == nil {
				return unrankedSortKey
			}
			return *it.LastWeek
		}
		sort.SliceStable(items, func(i, j int) bool {
			return key(items[i]) < key(items[j])
		})
	case domain.SortAllTime:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Stats.Plays > items[j].Stats.Plays
		})
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidSortView, view)
	}
	return nil
}
