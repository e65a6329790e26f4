package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/service/session"
)

// SessionHandler handles session lifecycle API requests.
type SessionHandler struct {
	lifecycle session.Lifecycle
	validator *validator.Validate
}

// NewSessionHandler creates a new SessionHandler with the given dependencies.
func NewSessionHandler(lifecycle session.Lifecycle) *SessionHandler {
	return &SessionHandler{
		lifecycle: lifecycle,
		validator: validator.New(),
	}
}

// Start handles POST /sessions.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	result, err := h.lifecycle.Start(r.Context(), userID, session.StartInput{
		DeckID:      req.DeckID,
		FolderID:    req.FolderID,
		Mode:        domain.SessionMode(req.Mode),
		TargetCount: req.TargetCount,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := StartSessionResponse{
		SessionID: result.Session.ID,
		Mode:      string(result.Session.Mode),
		Tasks:     result.Session.Tasks,
	}
	if result.Test != nil {
		resp.TestID = &result.Test.ID
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// RecordAnswer handles POST /sessions/{id}/answers.
func (h *SessionHandler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid session ID")
		return
	}

	var req RecordAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return
	}

	result, err := h.lifecycle.RecordAnswer(r.Context(), userID, sessionID, session.AnswerInput{
		TaskIndex:  req.TaskIndex,
		UserAnswer: req.Answer,
		TimeMs:     req.TimeMs,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RecordAnswerResponse{
		Result:       string(result.Result),
		Level:        result.State.Level,
		DueAt:        result.State.DueAt.Format(time.RFC3339),
		TotalCorrect: result.State.TotalCorrect,
		TotalWrong:   result.State.TotalWrong,
		CardID:       result.State.CardID,
	})
}

// Stop handles POST /sessions/{id}/stop. Stopping twice is a no-op
// returning the same terminal state.
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid session ID")
		return
	}

	result, err := h.lifecycle.Stop(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := StopSessionResponse{SessionID: result.Session.ID}
	if result.Session.EndedAt != nil {
		resp.EndedAt = result.Session.EndedAt.Format(time.RFC3339)
	}
	if result.Test != nil {
		resp.Test = &TestResult{
			TestID:       result.Test.ID,
			ScoreCorrect: result.Test.ScoreCorrect,
			ScoreTotal:   result.Test.ScoreTotal,
			ScorePercent: result.Test.ScorePercent,
			Status:       string(result.Test.Status),
			DurationMs:   result.Test.DurationMs,
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Delete handles DELETE /sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sessionID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid session ID")
		return
	}

	if err := h.lifecycle.Delete(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
