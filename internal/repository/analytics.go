package repository

import (
	"context"
	"fmt"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// SumViews sums view analytics per item for one category. An empty week
// sums every week. Items without rows are absent from the result.
func (r *Repository) SumViews(ctx context.Context, itemIDs []string, category domain.Category, week string) (map[string]int64, error) {
	sums := make(map[string]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return sums, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT item_id, SUM(views)::bigint
		FROM view_analytics
		WHERE item_id = ANY($1)
		  AND category = $2
		  AND ($3::text = '' OR week_key = $3)
		GROUP BY item_id`,
		itemIDs, string(category), week,
	)
	if err != nil {
		return nil, fmt.Errorf("sum %s views: %w", category, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var views int64
		if err := rows.Scan(&id, &views); err != nil {
			return nil, fmt.Errorf("scan view sum: %w", err)
		}
		sums[id] = views
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over view sums: %w", err)
	}
	return sums, nil
}
