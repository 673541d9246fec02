package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/actuallystonmai/charts-service/internal/domain"
	"github.com/actuallystonmai/charts-service/internal/logging"
)

// ChartsService is the engine surface exposed over HTTP.
type ChartsService interface {
	GetTrending(ctx context.Context, category domain.Category, limit, days int) (*domain.TrendingResult, error)
	GetTrendingGlobal(ctx context.Context, limit, days int) (*domain.GlobalResult, error)
	GetCharts(ctx context.Context, category domain.Category, region string, sort domain.SortView, limit int) (*domain.ChartResult, error)
	GetSnapshot(ctx context.Context, category domain.Category, week string) (*domain.ChartSnapshot, error)
	RecordSnapshots(ctx context.Context, categories []domain.Category) []domain.SnapshotStatus
}

type Handler struct {
	service ChartsService
}

func NewHandler(svc ChartsService) *Handler {
	return &Handler{service: svc}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}

// writeServiceError maps engine errors to responses. Data store failures get
// a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidSortView),
		errors.Is(err, domain.ErrInvalidWeek):
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
	case errors.Is(err, domain.ErrSnapshotNotFound):
		writeError(w, http.StatusNotFound, "snapshot_not_found", "No chart snapshot recorded for that week")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// queryInt parses an optional bounded integer query parameter.
func queryInt(r *http.Request, name string, fallback, lo, hi int) (int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}
