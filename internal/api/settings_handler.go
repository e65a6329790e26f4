package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/store"
)

// SettingsHandler serves per-user study settings. The engine only reads
// settings; this handler is how the owner changes them.
type SettingsHandler struct {
	settingsStore store.StudySettingsStore
	validator     *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler with the given dependencies.
func NewSettingsHandler(settingsStore store.StudySettingsStore) *SettingsHandler {
	return &SettingsHandler{
		settingsStore: settingsStore,
		validator:     validator.New(),
	}
}

// Get handles GET /settings. Users who never saved settings receive
// the defaults.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsStore.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK, domain.DefaultStudySettings(userID))
			return
		}
		HandleAPIError(w, r, err, "Failed to get settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// Update handles PUT /settings, replacing the user's settings wholesale.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	now := time.Now().UTC()
	settings := &domain.StudySettings{
		UserID:            userID,
		DailyGoalMode:     domain.DailyGoalMode(req.DailyGoalMode),
		MinSessionsPerDay: req.MinSessionsPerDay,
		MinMinutesPerDay:  req.MinMinutesPerDay,
		MixTranslate:      req.MixTranslate,
		MixAbcd:           req.MixAbcd,
		MixSentence:       req.MixSentence,
		MaxNewPerDay:      req.MaxNewPerDay,
		Shuffle:           req.Shuffle,
		Sound:             req.Sound,
		AutoAdvance:       req.AutoAdvance,
		DarkMode:          req.DarkMode,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := settings.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid settings data")
		return
	}

	if err := h.settingsStore.Upsert(r.Context(), settings); err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
