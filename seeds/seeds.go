package seeds

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
)

var (
	artists = []string{"Asake", "Tems", "Burna Boy", "Ayra Starr", "Rema", "Wizkid", "Fireboy DML", "Omah Lay"}
	genres  = []string{"afrobeats", "amapiano", "highlife", "hip-hop", "r&b", "gospel"}
	words   = []string{"Lagos", "Midnight", "Gold", "Rhythm", "Calm", "Fire", "Sunday", "Wave", "Soul", "City"}
)

type seedItem struct {
	id       string
	category domain.Category
}

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	// Truncate existing data before insert
	logging.Info().Msg("[seed] truncating existing data")
	if _, err := pool.Exec(ctx, `
		TRUNCATE view_analytics, chart_snapshots, content RESTART IDENTITY CASCADE
	`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	var items []seedItem
	for _, category := range domain.Categories {
		logging.Info().Str("category", string(category)).Msg("[seed] inserting content")
		seeded, err := seedContent(ctx, pool, rng, category, 40)
		if err != nil {
			return fmt.Errorf("seed %s content: %w", category, err)
		}
		items = append(items, seeded...)
	}

	logging.Info().Msg("[seed] inserting view analytics")
	if err := seedAnalytics(ctx, pool, rng, items, 8); err != nil {
		return fmt.Errorf("seed view analytics: %w", err)
	}

	logging.Info().Msg("[seed] seeding complete")
	return nil
}

func seedContent(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, category domain.Category, n int) ([]seedItem, error) {
	rows := []string{}
	args := []any{}
	items := make([]seedItem, 0, n)

	for range n {
		id := uuid.NewString()
		title := fmt.Sprintf("%s %s", words[rng.Intn(len(words))], words[rng.Intn(len(words))])
		artist := artists[rng.Intn(len(artists))]
		createdAt := time.Now().AddDate(0, 0, -rng.Intn(400))

		views := powerLawCount(rng, 50000)
		likes := views / int64(5+rng.Intn(20))
		shares := likes / int64(3+rng.Intn(10))
		downloads := views / int64(10+rng.Intn(40))
		comments := likes / int64(2+rng.Intn(8))

		var videoURL, snippetStart, snippetEnd any
		duration, trackCount := 0, 0
		switch category {
		case domain.CategoryTrack:
			duration = 150 + rng.Intn(150)
			start := rng.Intn(duration - 30)
			snippetStart, snippetEnd = start, start+30
		case domain.CategoryCollection:
			trackCount = 6 + rng.Intn(14)
		case domain.CategoryClip:
			duration = 180 + rng.Intn(240)
			videoURL = fmt.Sprintf("https://media.example.com/videos/%s.mp4", id)
		}

		base := len(args)
		placeholders := make([]string, 18)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			id, string(category), title, artist,
			fmt.Sprintf("https://media.example.com/covers/%s.jpg", id),
			videoURL, genres[rng.Intn(len(genres))],
			duration, trackCount, snippetStart, snippetEnd,
			createdAt, createdAt,
			views, likes, shares, downloads, comments,
		)
		items = append(items, seedItem{id: id, category: category})
	}

	if len(rows) == 0 {
		return nil, nil
	}

	query := `INSERT INTO content (id, category, title, artist, image_url, video_url, genre,
		duration_seconds, track_count, snippet_start, snippet_end, released_at, created_at,
		view_count, like_count, share_count, download_count, comment_count) VALUES ` + strings.Join(rows, ", ")

	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// seedAnalytics writes view rows for the last `weeks` ISO weeks. Some items
// get no rows so the lifetime counter fallback is exercised.
func seedAnalytics(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, items []seedItem, weeks int) error {
	rows := []string{}
	args := []any{}
	now := time.Now()

	for _, item := range items {
		if rng.Float64() < 0.2 {
			continue
		}
		for w := range weeks {
			week := domain.WeekKey(now.AddDate(0, 0, -7*w))
			base := len(args)
			rows = append(rows, fmt.Sprintf("($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4))
			args = append(args, item.id, string(item.category), week, powerLawCount(rng, 2000))
		}
	}

	if len(rows) == 0 {
		return nil
	}

	query := "INSERT INTO view_analytics (item_id, category, week_key, views) VALUES " + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func powerLawCount(rng *rand.Rand, scale float64) int64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.001
	}
	return int64(math.Round(math.Pow(u, 3.0)*scale)) + 1
}
