package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ReviewState
var (
	ErrEmptyStateUserID = errors.New("review state user ID cannot be empty")
	ErrEmptyStateCardID = errors.New("review state card ID cannot be empty")
	ErrInvalidLevel     = errors.New("level must be greater than or equal to 0")
	ErrInvalidCounter   = errors.New("counters must be greater than or equal to 0")
)

// ReviewState tracks a user's spaced repetition scheduling state for a
// specific card. Exactly one ReviewState exists per (user, card) pair;
// it is created lazily on the first review.
//
// Level is the spaced-repetition stage: 0 for new or just-missed cards,
// incremented on success. TotalCorrect and TotalWrong grow monotonically
// over the card's lifetime, while TodayCorrect and TodayWrong reset at
// the local-day boundary.
type ReviewState struct {
	UserID         uuid.UUID `json:"user_id"`
	CardID         uuid.UUID `json:"card_id"`
	Level          int       `json:"level"`
	DueAt          time.Time `json:"due_at"`
	TotalCorrect   int       `json:"total_correct"`
	TotalWrong     int       `json:"total_wrong"`
	TodayCorrect   int       `json:"today_correct"`
	TodayWrong     int       `json:"today_wrong"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewState creates scheduling state for a user and card with
// default values. New cards are due immediately.
func NewReviewState(userID, cardID uuid.UUID) (*ReviewState, error) {
	now := time.Now().UTC()
	state := &ReviewState{
		UserID:         userID,
		CardID:         cardID,
		Level:          0,
		DueAt:          now, // Card is available for review immediately
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the ReviewState has valid data.
// Returns an error if any field fails validation.
func (s *ReviewState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyStateUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptyStateCardID
	}

	if s.Level < 0 {
		return ErrInvalidLevel
	}

	if s.TotalCorrect < 0 || s.TotalWrong < 0 || s.TodayCorrect < 0 || s.TodayWrong < 0 {
		return ErrInvalidCounter
	}

	return nil
}

// IsDue reports whether the card is due for review at the given instant.
// The boundary is inclusive: a card due exactly at ref is due.
func (s *ReviewState) IsDue(ref time.Time) bool {
	return !s.DueAt.After(ref)
}
