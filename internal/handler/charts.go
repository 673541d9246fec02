package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// GET /charts/{category}
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category parameter")
		return
	}

	sort, err := domain.ParseSortView(r.URL.Query().Get("sort"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid sort parameter")
		return
	}

	limit, ok := queryInt(r, "limit", 10, 1, 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}
	region := r.URL.Query().Get("region")

	result, err := h.service.GetCharts(r.Context(), category, region, sort, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := time.Now().UTC()
	writeJSON(w, http.StatusOK, ChartResponse{
		Category: category,
		Region:   region,
		Sort:     sort,
		Week:     domain.WeekKey(now),
		Items:    result.Items,
		Metadata: domain.TrendingMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: now.Format(time.RFC3339),
			TotalCount:  len(result.Items),
		},
	})
}
