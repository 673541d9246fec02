package chart

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
	"github.com/actuallystonmai/charts-service/internal/metrics"
)

type SnapshotWriter interface {
	PutSnapshot(ctx context.Context, category domain.Category, week string, entries []domain.ChartEntry) error
	SnapshotHistory(ctx context.Context, category domain.Category, before string) (map[string]domain.EntryHistory, error)
}

// Recorder writes the weekly snapshot of a category. Runs for the same
// week must be serialized by the caller; a re-run replaces the snapshot.
type Recorder struct {
	builder *Builder
	store   SnapshotWriter
	now     func() time.Time
}

func NewRecorder(builder *Builder, store SnapshotWriter) *Recorder {
	return &Recorder{builder: builder, store: store, now: time.Now}
}

func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// Record ranks category and stores it as the current week's snapshot.
func (r *Recorder) Record(ctx context.Context, category domain.Category) (*domain.ChartSnapshot, error) {
	pool, err := r.builder.Pool(ctx, category)
	if err != nil {
		return nil, err
	}

	week := domain.WeekKey(r.now())
	history, err := r.store.SnapshotHistory(ctx, category, week)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	entries := NextEntries(pool, history)
	if err := r.store.PutSnapshot(ctx, category, week, entries); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}

	metrics.SnapshotsRecorded.WithLabelValues(string(category)).Inc()
	logging.Ctx(ctx).Info().Str("category", string(category)).Str("week", week).Int("entries", len(entries)).
		Msg("chart snapshot recorded")

	return &domain.ChartSnapshot{Category: category, Week: week, Entries: entries, UpdatedAt: r.now()}, nil
}

// NextEntries ranks pool into snapshot entries, carrying peak and weeks-on
// forward from earlier snapshots.
func NextEntries(pool []domain.ScoredItem, history map[string]domain.EntryHistory) []domain.ChartEntry {
	entries := make([]domain.ChartEntry, len(pool))
	for i, item := range pool {
		e := domain.ChartEntry{ItemID: item.Item.ID, Position: i + 1, Peak: i + 1, WeeksOn: 1}
		if h, ok := history[item.Item.ID]; ok {
			if h.BestPeak > 0 && h.BestPeak < e.Peak {
				e.Peak = h.BestPeak
			}
			e.WeeksOn = h.Appearances + 1
		}
		entries[i] = e
	}
	return entries
}
