package domain

// ViewAnalyticsRecord aggregates view events for one item, category and ISO week.
type ViewAnalyticsRecord struct {
	ItemID   string   `json:"itemId"`
	Category Category `json:"category"`
	Week     string   `json:"week"`
	Views    int64    `json:"views"`
}
