package trending

import (
	"context"
	"fmt"
	"time"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

type fakeContent struct {
	items   map[domain.Category][]domain.ContentItem
	err     error
	filters []domain.ContentFilter
}

func (f *fakeContent) FindByCategory(_ context.Context, category domain.Category, filter domain.ContentFilter) ([]domain.ContentItem, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ContentItem
	for _, item := range f.items[category] {
		e := domain.Normalize(item)
		if !filter.CreatedAfter.IsZero() && e.CreatedAt.Before(filter.CreatedAfter) {
			continue
		}
		out = append(out, item)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type fakeViews struct {
	sums map[string]int64
	err  error
}

func (f *fakeViews) SumViews(_ context.Context, ids []string, _ domain.Category, _ string) (map[string]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]int64)
	for _, id := range ids {
		if v, ok := f.sums[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func track(id string, createdAt time.Time, c domain.Counters) domain.ContentItem {
	return &domain.Track{Content: domain.Content{ID: id, Title: "Track " + id, CreatedAt: createdAt, Counters: c}}
}

func tracks(n int, createdAt time.Time) []domain.ContentItem {
	out := make([]domain.ContentItem, n)
	for i := range n {
		out[i] = track(fmt.Sprintf("t%d", i), createdAt, domain.Counters{Views: int64(i)})
	}
	return out
}
