package domain

import (
	"fmt"
	"time"
)

// SortView selects the ordering of a chart response.
type SortView string

const (
	SortThisWeek SortView = "this-week"
	SortLastWeek SortView = "last-week"
	SortAllTime  SortView = "all-time"
)

func ParseSortView(s string) (SortView, error) {
	switch SortView(s) {
	case "":
		return SortThisWeek, nil
	case SortThisWeek, SortLastWeek, SortAllTime:
		return SortView(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortView, s)
}

// ChartEntry is one ranked row of a weekly snapshot.
type ChartEntry struct {
	ItemID   string `json:"itemId"`
	Position int    `json:"position"`
	Peak     int    `json:"peak"`
	WeeksOn  int    `json:"weeksOn"`
}

// ChartSnapshot is the chart of one category for one ISO week.
type ChartSnapshot struct {
	Category  Category     `json:"category"`
	Week      string       `json:"week"`
	Entries   []ChartEntry `json:"entries"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// EntryMap indexes the entries by item id. A nil snapshot yields an empty map.
func (s *ChartSnapshot) EntryMap() map[string]ChartEntry {
	if s == nil {
		return map[string]ChartEntry{}
	}
	m := make(map[string]ChartEntry, len(s.Entries))
	for _, e := range s.Entries {
		m[e.ItemID] = e
	}
	return m
}

// ValidatePositions checks that positions are a permutation of 1..N.
func ValidatePositions(entries []ChartEntry) error {
	seen := make([]bool, len(entries)+1)
	for _, e := range entries {
		if e.Position < 1 || e.Position > len(entries) {
			return fmt.Errorf("%w: position %d out of range 1..%d", ErrInvalidSnapshot, e.Position, len(entries))
		}
		if seen[e.Position] {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidSnapshot, e.Position)
		}
		seen[e.Position] = true
	}
	return nil
}

// EntryHistory summarises an item's past appearances in a category chart.
type EntryHistory struct {
	BestPeak    int
	Appearances int
}

type ChartStats struct {
	Plays     int64 `json:"plays"`
	Downloads int64 `json:"downloads"`
	Likes     int64 `json:"likes"`
	Views     int64 `json:"views"`
	Shares    int64 `json:"shares"`
	Comments  int64 `json:"comments"`
}

// ChartItem is the externally visible chart row. It is assembled per request.
type ChartItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist"`
	Image       string     `json:"image"`
	VideoURL    string     `json:"videoUrl,omitempty"`
	Position    int        `json:"position"`
	LastWeek    *int       `json:"lastWeek"`
	Peak        *int       `json:"peak"`
	WeeksOn     int        `json:"weeksOn"`
	Region      string     `json:"region"`
	Genre       string     `json:"genre"`
	ReleaseDate time.Time  `json:"releaseDate"`
	Stats       ChartStats `json:"stats"`
	Snippet     *Snippet   `json:"snippet,omitempty"`
}
