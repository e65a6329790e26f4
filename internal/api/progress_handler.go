package api

import (
	"net/http"
	"time"

	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/service/progress"
)

// ProgressHandler serves daily progress aggregates.
type ProgressHandler struct {
	aggregator progress.Aggregator
}

// NewProgressHandler creates a new ProgressHandler with the given dependencies.
func NewProgressHandler(aggregator progress.Aggregator) *ProgressHandler {
	return &ProgressHandler{aggregator: aggregator}
}

// Daily handles GET /progress/daily. An optional "day" query parameter
// (RFC 3339 date) selects the reference day, defaulting to today.
func (h *ProgressHandler) Daily(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	referenceDay := time.Now()
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid day format, expected YYYY-MM-DD")
			return
		}
		referenceDay = parsed
	}

	daily, err := h.aggregator.DailyProgress(r.Context(), userID, referenceDay)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute daily progress")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, daily)
}
