package handler

import "github.com/actuallystonmai/charts-service/internal/domain"

type TrendingResponse struct {
	Category domain.Category     `json:"category"`
	Items    []domain.ScoredItem `json:"items"`
	Metadata domain.TrendingMeta `json:"metadata"`
}

type GlobalTrendingResponse struct {
	Items    []domain.RankedGlobalItem `json:"items"`
	Metadata domain.TrendingMeta       `json:"metadata"`
}

type ChartResponse struct {
	Category domain.Category     `json:"category"`
	Region   string              `json:"region"`
	Sort     domain.SortView     `json:"sort"`
	Week     string              `json:"week"`
	Items    []domain.ChartItem  `json:"items"`
	Metadata domain.TrendingMeta `json:"metadata"`
}

type SnapshotRecordResponse struct {
	Results []domain.SnapshotStatus `json:"results"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
