package api

import (
	"errors"
	"net/http"

	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/service/auth"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/service/session"
	"github.com/wordloop/wordloop-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, review.ErrDeckNotOwned),
		errors.Is(err, session.ErrSessionNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, review.ErrFolderNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, session.ErrSessionEnded),
		errors.Is(err, session.ErrTaskAlreadyAnswered),
		errors.Is(err, session.ErrConflictRetriesExhausted):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidSessionMode),
		errors.Is(err, domain.ErrInvalidTargetCount),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, review.ErrScopeConflict),
		errors.Is(err, session.ErrTaskOutOfRange):
		return http.StatusBadRequest

	// An empty scope is a well-formed request that cannot produce a
	// session.
	case errors.Is(err, session.ErrEmptyPool):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal
// details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, review.ErrDeckNotOwned),
		errors.Is(err, session.ErrSessionNotOwned):
		return "You do not own this resource"

	case errors.Is(err, review.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, review.ErrFolderNotFound),
		errors.Is(err, store.ErrFolderNotFound):
		return "Folder not found"

	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrTestNotFound):
		return "Test not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, session.ErrSessionEnded):
		return "Session has already ended"

	case errors.Is(err, session.ErrTaskAlreadyAnswered):
		return "Task has already been answered"

	case errors.Is(err, session.ErrConflictRetriesExhausted),
		errors.Is(err, store.ErrConflict):
		return "Concurrent update conflict, please retry"

	case errors.Is(err, session.ErrEmptyPool):
		return "No cards available in the requested scope"

	case errors.Is(err, review.ErrScopeConflict):
		return "Specify either a deck or a folder, not both"

	case errors.Is(err, session.ErrTaskOutOfRange):
		return "Task index out of range"

	case errors.Is(err, domain.ErrInvalidSessionMode):
		return "Invalid session mode"

	case errors.Is(err, domain.ErrInvalidTargetCount):
		return "Target count must be greater than 0"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message and
// writes the response. An explicit userMessage overrides the derived
// safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
