package trending

import (
	"testing"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

func scored(id string, score float64) domain.ScoredItem {
	return domain.ScoredItem{Item: domain.Engagement{Content: domain.Content{ID: id}}, TrendingScore: score}
}

func TestRank(t *testing.T) {
	items := []domain.ScoredItem{scored("a", 5), scored("b", 50), scored("c", 20), scored("d", 1)}

	ranked := Rank(items, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 items, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].TrendingScore < ranked[i].TrendingScore {
			t.Errorf("not sorted at %d: %f < %f", i, ranked[i-1].TrendingScore, ranked[i].TrendingScore)
		}
	}
	if ranked[0].Item.ID != "b" {
		t.Errorf("expected b first, got %s", ranked[0].Item.ID)
	}
	// input untouched
	if items[0].Item.ID != "a" {
		t.Error("Rank must not reorder its input")
	}
}

func TestRankEdgeCases(t *testing.T) {
	if got := Rank(nil, 10); got == nil || len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %v", got)
	}
	if got := Rank([]domain.ScoredItem{scored("a", 1)}, 0); len(got) != 0 {
		t.Errorf("expected empty result for n=0, got %v", got)
	}
	if got := Rank([]domain.ScoredItem{scored("a", 1)}, 10); len(got) != 1 {
		t.Errorf("expected 1 item, got %d", len(got))
	}
}
