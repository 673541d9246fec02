package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

var ErrContentNotFound = errors.New("content not found")

const contentColumns = `id, category, title, artist, image_url, COALESCE(media_url, ''), COALESCE(video_url, ''),
	genre, duration_seconds, track_count, snippet_start, snippet_end, released_at, created_at,
	view_count, like_count, share_count, download_count, comment_count`

type contentRow struct {
	category     domain.Category
	content      domain.Content
	videoURL     string
	duration     int
	trackCount   int
	snippetStart *int
	snippetEnd   *int
}

func scanContent(row pgx.Row) (contentRow, error) {
	var cr contentRow
	c := &cr.content
	err := row.Scan(&c.ID, &cr.category, &c.Title, &c.Artist, &c.Image, &c.MediaURL, &cr.videoURL,
		&c.Genre, &cr.duration, &cr.trackCount, &cr.snippetStart, &cr.snippetEnd, &c.ReleasedAt, &c.CreatedAt,
		&c.Counters.Views, &c.Counters.Likes, &c.Counters.Shares, &c.Counters.Downloads, &c.Counters.Comments)
	return cr, err
}

// item builds the content variant matching the row's category.
func (cr contentRow) item() (domain.ContentItem, error) {
	switch cr.category {
	case domain.CategoryTrack:
		t := &domain.Track{Content: cr.content, DurationSeconds: cr.duration}
		if cr.snippetStart != nil && cr.snippetEnd != nil {
			t.Snippet = &domain.Snippet{Start: *cr.snippetStart, End: *cr.snippetEnd}
		}
		return t, nil
	case domain.CategoryCollection:
		return &domain.Collection{Content: cr.content, TrackCount: cr.trackCount}, nil
	case domain.CategoryClip:
		return &domain.Clip{Content: cr.content, VideoURL: cr.videoURL, DurationSeconds: cr.duration}, nil
	}
	return nil, fmt.Errorf("content %s: %w: %q", cr.content.ID, domain.ErrInvalidCategory, cr.category)
}

// FindByCategory lists content of one category, most recently created first.
func (r *Repository) FindByCategory(ctx context.Context, category domain.Category, filter domain.ContentFilter) ([]domain.ContentItem, error) {
	var createdAfter *time.Time
	if !filter.CreatedAfter.IsZero() {
		createdAfter = &filter.CreatedAfter
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+contentColumns+`
		FROM content
		WHERE category = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC, id
		LIMIT $3`,
		string(category), createdAfter, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query %s content: %w", category, err)
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		cr, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		item, err := cr.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over content: %w", err)
	}
	return items, nil
}

// Get single content item
func (r *Repository) FindByID(ctx context.Context, id string) (domain.ContentItem, error) {
	cr, err := scanContent(r.pool.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("query content id=%s: %w", id, err)
	}
	return cr.item()
}
