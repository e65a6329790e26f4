package api

import (
	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/service/review"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    string    `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// StartSessionRequest defines the payload for starting a study session.
// DeckID and FolderID are mutually exclusive; with neither, the session
// draws from every deck the user owns.
type StartSessionRequest struct {
	DeckID      *uuid.UUID `json:"deck_id,omitempty"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
	Mode        string     `json:"mode"         validate:"required"`
	TargetCount int        `json:"target_count" validate:"required,gt=0"`
}

// StartSessionResponse carries the created session's ID and its task
// list, which is the durable source of truth for the session's work.
type StartSessionResponse struct {
	SessionID uuid.UUID     `json:"session_id"`
	Mode      string        `json:"mode"`
	Tasks     []domain.Task `json:"tasks"`
	TestID    *uuid.UUID    `json:"test_id,omitempty"`
}

// RecordAnswerRequest defines the payload for grading one session task.
type RecordAnswerRequest struct {
	TaskIndex int    `json:"task_index" validate:"gte=0"`
	Answer    string `json:"answer"`
	TimeMs    int64  `json:"time_ms"    validate:"gte=0"`
}

// RecordAnswerResponse carries the grading outcome and the card's next
// schedule.
type RecordAnswerResponse struct {
	Result       string    `json:"result"`
	Level        int       `json:"level"`
	DueAt        string    `json:"due_at"`
	TotalCorrect int       `json:"total_correct"`
	TotalWrong   int       `json:"total_wrong"`
	CardID       uuid.UUID `json:"card_id"`
}

// StopSessionResponse carries the ended session and, for test
// sessions, the finalized score.
type StopSessionResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	EndedAt   string      `json:"ended_at"`
	Test      *TestResult `json:"test,omitempty"`
}

// TestResult is the finalized score of a test session.
type TestResult struct {
	TestID       uuid.UUID `json:"test_id"`
	ScoreCorrect int       `json:"score_correct"`
	ScoreTotal   int       `json:"score_total"`
	ScorePercent int       `json:"score_percent"`
	Status       string    `json:"status"`
	DurationMs   int64     `json:"duration_ms"`
}

// DueCardsResponse is one page of due-set resolution.
type DueCardsResponse struct {
	Cards      []review.CardSummary `json:"cards"`
	NextCursor *int                 `json:"nextCursor"`
	TotalDue   int                  `json:"totalDue"`
}

// HintResponse carries the masked hint for a card's answer.
type HintResponse struct {
	CardID uuid.UUID `json:"card_id"`
	Hint   string    `json:"hint"`
}

// UpdateSettingsRequest defines the payload for replacing the user's
// study settings.
type UpdateSettingsRequest struct {
	DailyGoalMode     string `json:"daily_goal_mode"      validate:"required,oneof=sessions minutes hybrid"`
	MinSessionsPerDay int    `json:"min_sessions_per_day" validate:"required,gt=0"`
	MinMinutesPerDay  int    `json:"min_minutes_per_day"  validate:"required,gt=0"`
	MixTranslate      int    `json:"mix_translate"        validate:"gte=0"`
	MixAbcd           int    `json:"mix_abcd"             validate:"gte=0"`
	MixSentence       int    `json:"mix_sentence"         validate:"gte=0"`
	MaxNewPerDay      int    `json:"max_new_per_day"      validate:"gte=0"`
	Shuffle           bool   `json:"shuffle"`
	Sound             bool   `json:"sound"`
	AutoAdvance       bool   `json:"auto_advance"`
	DarkMode          bool   `json:"dark_mode"`
}
