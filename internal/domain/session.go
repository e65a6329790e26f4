package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionMode identifies the kind of study activity a session runs.
type SessionMode string

// Supported session modes.
const (
	SessionModeTranslate SessionMode = "translate"
	SessionModeAbcd      SessionMode = "abcd"
	SessionModeSentence  SessionMode = "sentence"
	SessionModeDescribe  SessionMode = "describe"
	SessionModeMixed     SessionMode = "mixed"
	SessionModeTest      SessionMode = "test"
)

// Session-specific validation errors
var (
	ErrSessionIDEmpty        = errors.New("session ID cannot be empty")
	ErrSessionUserIDEmpty    = errors.New("session user ID cannot be empty")
	ErrSessionNoTasks        = errors.New("session must contain at least one task")
	ErrSessionAlreadyEnded   = errors.New("session has already ended")
	ErrSessionTaskNotFound   = errors.New("session task not found")
	ErrInvalidTargetCount    = errors.New("target count must be greater than 0")
	ErrSessionTaskOutOfRange = errors.New("task index out of range")
)

// Task is a single unit of work in a session's task list. The prompt and
// answer are snapshotted from the card at session start; the stored task
// list is the durable source of truth for the session, so later card
// edits do not affect a running session.
type Task struct {
	CardID    uuid.UUID   `json:"card_id"`
	Mode      SessionMode `json:"mode"`
	Prompt    string      `json:"prompt"`
	Answer    string      `json:"answer"`
	Completed bool        `json:"completed,omitempty"`
}

// Session is one bounded study activity with a fixed, ordered task list.
// A session is active until EndedAt is set, which happens exactly once.
type Session struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	DeckID      *uuid.UUID  `json:"deck_id,omitempty"`
	Mode        SessionMode `json:"mode"`
	TargetCount int         `json:"target_count"`
	Tasks       []Task      `json:"tasks"`
	StartedAt   time.Time   `json:"started_at"`
	EndedAt     *time.Time  `json:"ended_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsValidSessionMode reports whether the given mode is supported.
func IsValidSessionMode(mode SessionMode) bool {
	switch mode {
	case SessionModeTranslate,
		SessionModeAbcd,
		SessionModeSentence,
		SessionModeDescribe,
		SessionModeMixed,
		SessionModeTest:
		return true
	default:
		return false
	}
}

// NewSession creates a new active Session with the given task list.
// Task order is fixed at creation time and preserved thereafter.
func NewSession(
	userID uuid.UUID,
	deckID *uuid.UUID,
	mode SessionMode,
	targetCount int,
	tasks []Task,
	startedAt time.Time,
) (*Session, error) {
	session := &Session{
		ID:          uuid.New(),
		UserID:      userID,
		DeckID:      deckID,
		Mode:        mode,
		TargetCount: targetCount,
		Tasks:       tasks,
		StartedAt:   startedAt,
		CreatedAt:   startedAt,
		UpdatedAt:   startedAt,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if !IsValidSessionMode(s.Mode) {
		return ErrInvalidSessionMode
	}

	if s.TargetCount <= 0 {
		return ErrInvalidTargetCount
	}

	if len(s.Tasks) == 0 {
		return ErrSessionNoTasks
	}

	return nil
}

// IsEnded reports whether the session has reached its terminal state.
func (s *Session) IsEnded() bool {
	return s.EndedAt != nil
}

// CompleteTask marks the task at the given index as completed.
// Returns ErrSessionAlreadyEnded for ended sessions and
// ErrSessionTaskOutOfRange for an invalid index.
func (s *Session) CompleteTask(index int) error {
	if s.IsEnded() {
		return ErrSessionAlreadyEnded
	}

	if index < 0 || index >= len(s.Tasks) {
		return ErrSessionTaskOutOfRange
	}

	s.Tasks[index].Completed = true
	return nil
}

// Duration returns the elapsed time between start and end of the
// session, clamped to zero for clock skew. Returns 0 for active
// sessions.
func (s *Session) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}

	d := s.EndedAt.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}
