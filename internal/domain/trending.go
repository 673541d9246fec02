package domain

// Scoring weights for the trending score. Views are the baseline unit.
const (
	LikeWeight     = 2.0
	ShareWeight    = 3.0
	DownloadWeight = 1.5
)

// ScoredItem is a content item with its trending score for one request.
// It is never persisted.
type ScoredItem struct {
	Item          Engagement `json:"item"`
	ViewCount     int64   `json:"viewCount"`
	TrendingScore float64 `json:"trendingScore"`
}

// TrendingScore computes views + likes*2 + shares*3 + downloads*1.5.
func TrendingScore(views, likes, shares, downloads int64) float64 {
	return float64(views) +
		float64(likes)*LikeWeight +
		float64(shares)*ShareWeight +
		float64(downloads)*DownloadWeight
}

// RankedGlobalItem is an entry of the cross-category leaderboard.
type RankedGlobalItem struct {
	ScoredItem
	Rank int `json:"rank"`
}

type TrendingMeta struct {
	CacheHit    bool   `json:"cache_hit"`
	GeneratedAt string `json:"generated_at"`
	TotalCount  int    `json:"total_count"`
}

type TrendingResult struct {
	Items    []ScoredItem
	CacheHit bool
}

type GlobalResult struct {
	Items    []RankedGlobalItem
	CacheHit bool
}

type ChartResult struct {
	Items    []ChartItem
	CacheHit bool
}

// SnapshotStatus reports the outcome of recording one category snapshot.
type SnapshotStatus struct {
	Category Category `json:"category"`
	Week     string   `json:"week,omitempty"`
	Entries  int      `json:"entries"`
	Status   string   `json:"status"`
	Error    string   `json:"error,omitempty"`
	Message  string   `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
