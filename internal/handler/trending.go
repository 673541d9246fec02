package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// GET /trending/{category}
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category parameter")
		return
	}

	limit, ok := queryInt(r, "limit", 10, 1, 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}
	days, ok := queryInt(r, "days", 7, 1, 365)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid days parameter")
		return
	}

	result, err := h.service.GetTrending(r.Context(), category, limit, days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TrendingResponse{
		Category: category,
		Items:    result.Items,
		Metadata: domain.TrendingMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Items),
		},
	})
}

// GET /trending
func (h *Handler) GetTrendingGlobal(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", 20, 1, 100)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid limit parameter")
		return
	}
	days, ok := queryInt(r, "days", 7, 1, 365)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid days parameter")
		return
	}

	result, err := h.service.GetTrendingGlobal(r.Context(), limit, days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GlobalTrendingResponse{
		Items: result.Items,
		Metadata: domain.TrendingMeta{
			CacheHit:    result.CacheHit,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			TotalCount:  len(result.Items),
		},
	})
}
