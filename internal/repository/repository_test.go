package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestContentRowItem(t *testing.T) {
	base := domain.Content{ID: "c1", Title: "Item"}

	track, err := contentRow{category: domain.CategoryTrack, content: base, duration: 200,
		snippetStart: intPtr(30), snippetEnd: intPtr(60)}.item()
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	tr, ok := track.(*domain.Track)
	if !ok || tr.Snippet == nil || tr.Snippet.Start != 30 || tr.DurationSeconds != 200 {
		t.Errorf("unexpected track %+v", track)
	}

	noSnippet, _ := contentRow{category: domain.CategoryTrack, content: base, snippetStart: intPtr(30)}.item()
	if noSnippet.(*domain.Track).Snippet != nil {
		t.Error("half-open snippet should be dropped")
	}

	album, _ := contentRow{category: domain.CategoryCollection, content: base, trackCount: 11}.item()
	if a, ok := album.(*domain.Collection); !ok || a.TrackCount != 11 {
		t.Errorf("unexpected album %+v", album)
	}

	clip, _ := contentRow{category: domain.CategoryClip, content: base, videoURL: "https://cdn/v.mp4"}.item()
	if c, ok := clip.(*domain.Clip); !ok || c.VideoURL == "" {
		t.Errorf("unexpected clip %+v", clip)
	}

	if _, err := (contentRow{category: "podcast", content: base}).item(); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestPutSnapshotValidates(t *testing.T) {
	r := New(nil)
	ctx := context.Background()

	err := r.PutSnapshot(ctx, domain.CategoryTrack, "2025-W40", []domain.ChartEntry{
		{ItemID: "a", Position: 1}, {ItemID: "b", Position: 3},
	})
	if !errors.Is(err, domain.ErrInvalidSnapshot) {
		t.Errorf("expected ErrInvalidSnapshot, got %v", err)
	}

	for _, week := range []string{"2025-40", "2025-W+5", "+025-W05"} {
		if err := r.PutSnapshot(ctx, domain.CategoryTrack, week, nil); !errors.Is(err, domain.ErrInvalidWeek) {
			t.Errorf("%s: expected ErrInvalidWeek, got %v", week, err)
		}
	}
}

func TestSumViewsNoIDs(t *testing.T) {
	sums, err := New(nil).SumViews(context.Background(), nil, domain.CategoryTrack, "")
	if err != nil || len(sums) != 0 {
		t.Errorf("expected empty sums without a query, got %v %v", sums, err)
	}
}

func TestSummarizeHistory(t *testing.T) {
	// two weeks as stored in chart_snapshots.entries
	snapshots := [][]byte{
		[]byte(`[{"itemId":"a","position":3,"peak":3,"weeksOn":1},{"itemId":"b","position":1,"peak":1,"weeksOn":1}]`),
		[]byte(`[{"itemId":"a","position":2,"peak":2,"weeksOn":2},{"itemId":"c","position":1,"peak":1,"weeksOn":1}]`),
	}

	history, err := summarizeHistory(snapshots)
	if err != nil {
		t.Fatalf("summarizeHistory failed: %v", err)
	}

	want := map[string]domain.EntryHistory{
		"a": {BestPeak: 2, Appearances: 2},
		"b": {BestPeak: 1, Appearances: 1},
		"c": {BestPeak: 1, Appearances: 1},
	}
	if len(history) != len(want) {
		t.Fatalf("expected %d items, got %v", len(want), history)
	}
	for id, w := range want {
		if history[id] != w {
			t.Errorf("%s: got %+v, want %+v", id, history[id], w)
		}
	}

	if _, err := summarizeHistory([][]byte{[]byte(`[{"itemId":`)}); err == nil {
		t.Error("expected decode error for a truncated document")
	}
}

func TestSummarizeHistoryReadsPutEncoding(t *testing.T) {
	raw, err := json.Marshal([]domain.ChartEntry{{ItemID: "x", Position: 1, Peak: 1, WeeksOn: 4}})
	if err != nil {
		t.Fatal(err)
	}
	history, err := summarizeHistory([][]byte{raw})
	if err != nil {
		t.Fatal(err)
	}
	if h := history["x"]; h.BestPeak != 1 || h.Appearances != 1 {
		t.Errorf("unexpected history %+v", history)
	}
}
