package domain

import (
	"fmt"
	"time"
)

// Category discriminates the three content variants. The string values are
// the ones used on the wire and in the database.
type Category string

const (
	CategoryTrack      Category = "song"
	CategoryCollection Category = "album"
	CategoryClip       Category = "video"
)

// Categories lists every category in the fixed order used for merging.
var Categories = []Category{CategoryTrack, CategoryCollection, CategoryClip}

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTrack, CategoryCollection, CategoryClip:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ContentFilter narrows a category listing. Zero values mean no restriction.
type ContentFilter struct {
	CreatedAfter time.Time
	Limit        int
}

// Counters are the monotonically non-decreasing engagement counters.
type Counters struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Shares    int64 `json:"shares"`
	Downloads int64 `json:"downloads"`
	Comments  int64 `json:"comments"`
}

// Content holds the fields shared by every content variant.
type Content struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Image      string    `json:"image"`
	MediaURL   string    `json:"mediaUrl,omitempty"`
	Genre      string    `json:"genre"`
	ReleasedAt time.Time `json:"releaseDate"`
	CreatedAt  time.Time `json:"createdAt"`
	Counters   Counters  `json:"counters"`
}

func (c *Content) base() *Content { return c }

// Snippet is a preview playback window in seconds.
type Snippet struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ContentItem is one of Track, Collection or Clip.
type ContentItem interface {
	Category() Category
	base() *Content
}

type Track struct {
	Content
	DurationSeconds int      `json:"durationSeconds"`
	Snippet         *Snippet `json:"snippet,omitempty"`
}

func (Track) Category() Category { return CategoryTrack }

type Collection struct {
	Content
	TrackCount int `json:"trackCount"`
}

func (Collection) Category() Category { return CategoryCollection }

type Clip struct {
	Content
	VideoURL        string `json:"videoUrl"`
	DurationSeconds int    `json:"durationSeconds"`
}

func (Clip) Category() Category { return CategoryClip }

// Engagement is the variant-independent view of a content item used for
// scoring and chart assembly.
type Engagement struct {
	Content
	Category Category `json:"category"`
	VideoURL string   `json:"videoUrl,omitempty"`
	Snippet  *Snippet `json:"snippet,omitempty"`
}

// Normalize maps any content variant to its Engagement shape.
func Normalize(item ContentItem) Engagement {
	e := Engagement{
		Content:  *item.base(),
		Category: item.Category(),
	}
	switch v := item.(type) {
	case *Track:
		e.Snippet = v.Snippet
	case *Clip:
		e.VideoURL = v.VideoURL
	}
	return e
}
