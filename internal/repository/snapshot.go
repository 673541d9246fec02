package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// GetSnapshot returns the snapshot for (category, week), or nil when none
// has been recorded.
func (r *Repository) GetSnapshot(ctx context.Context, category domain.Category, week string) (*domain.ChartSnapshot, error) {
	snap := &domain.ChartSnapshot{Category: category, Week: week}
	var raw []byte

	err := r.pool.QueryRow(ctx,
		`SELECT entries, updated_at FROM chart_snapshots WHERE category = $1 AND week_key = $2`,
		string(category), week,
	).Scan(&raw, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot %s/%s: %w", category, week, err)
	}

	if err := json.Unmarshal(raw, &snap.Entries); err != nil {
		return nil, fmt.Errorf("decode snapshot %s/%s: %w", category, week, err)
	}
	return snap, nil
}

// PutSnapshot upserts the snapshot for (category, week). Concurrent writers
// for the same key race, the last one wins.
func (r *Repository) PutSnapshot(ctx context.Context, category domain.Category, week string, entries []domain.ChartEntry) error {
	if _, err := domain.ParseWeekKey(week); err != nil {
		return err
	}
	if err := domain.ValidatePositions(entries); err != nil {
		return err
	}
	if entries == nil {
		entries = []domain.ChartEntry{}
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode snapshot %s/%s: %w", category, week, err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chart_snapshots (category, week_key, entries, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (category, week_key)
		DO UPDATE SET entries = EXCLUDED.entries, updated_at = EXCLUDED.updated_at`,
		string(category), week, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s/%s: %w", category, week, err)
	}
	return nil
}

// SnapshotHistory summarises every snapshot of category strictly before the
// given week: best peak and number of appearances per item. Week keys are
// fixed width, so the text comparison is chronological.
func (r *Repository) SnapshotHistory(ctx context.Context, category domain.Category, before string) (map[string]domain.EntryHistory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT entries FROM chart_snapshots
		WHERE category = $1 AND week_key < $2
		ORDER BY week_key`,
		string(category), before,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s snapshot history: %w", category, err)
	}
	defer rows.Close()

	var snapshots [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan snapshot history: %w", err)
		}
		snapshots = append(snapshots, raw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over snapshot history: %w", err)
	}
	return summarizeHistory(snapshots)
}

// summarizeHistory folds stored entry documents into per-item history.
func summarizeHistory(snapshots [][]byte) (map[string]domain.EntryHistory, error) {
	history := make(map[string]domain.EntryHistory)
	for _, raw := range snapshots {
		var entries []domain.ChartEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode snapshot history: %w", err)
		}
		for _, e := range entries {
			h := history[e.ItemID]
			if h.BestPeak == 0 || (e.Peak > 0 && e.Peak < h.BestPeak) {
				h.BestPeak = e.Peak
			}
			h.Appearances++
			history[e.ItemID] = h
		}
	}
	return history, nil
}
