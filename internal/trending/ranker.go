package trending

import (
	"sort"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// Rank returns at most n items ordered by descending trending score.
// The sort is stable: equal scores keep their input order, and no other
// tie-break is guaranteed.
func Rank(items []domain.ScoredItem, n int) []domain.ScoredItem {
	if n <= 0 || len(items) == 0 {
		return []domain.ScoredItem{}
	}

	ranked := make([]domain.ScoredItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TrendingScore > ranked[j].TrendingScore
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
