package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/charts-service/internal/domain"
)

// GET /charts/{category}/snapshots/{week}
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category parameter")
		return
	}

	snap, err := h.service.GetSnapshot(r.Context(), category, chi.URLParam(r, "week"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// POST /charts/{category}/snapshots
func (h *Handler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid category parameter")
		return
	}

	results := h.service.RecordSnapshots(r.Context(), []domain.Category{category})
	status := http.StatusOK
	for _, res := range results {
		if res.Status == domain.StatusFailed {
			status = http.StatusInternalServerError
		}
	}

	writeJSON(w, status, SnapshotRecordResponse{Results: results})
}
