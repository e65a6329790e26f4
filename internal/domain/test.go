package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// TestStatus represents the lifecycle state of a scored test.
type TestStatus string

// Possible test status values. A test is terminal once FinishedAt is
// set; it finishes as "finished" when at least one answer was recorded
// and as "abandoned" otherwise.
const (
	TestStatusInProgress TestStatus = "in_progress"
	TestStatusFinished   TestStatus = "finished"
	TestStatusAbandoned  TestStatus = "abandoned"
)

// Test-specific validation errors
var (
	ErrTestIDEmpty        = errors.New("test ID cannot be empty")
	ErrTestUserIDEmpty    = errors.New("test user ID cannot be empty")
	ErrTestSessionIDEmpty = errors.New("test session ID cannot be empty")
	ErrTestAlreadyEnded   = errors.New("test has already finished")
)

// Test is the scored variant of a session. It links back to the session
// that ran it and records question count, timing, and the final score.
type Test struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	SessionID     uuid.UUID  `json:"session_id"`
	DeckID        *uuid.UUID `json:"deck_id,omitempty"`
	FolderID      *uuid.UUID `json:"folder_id,omitempty"`
	QuestionCount int        `json:"question_count"`
	Shuffled      bool       `json:"shuffled"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	DurationMs    int64      `json:"duration_ms"`
	ScoreCorrect  int        `json:"score_correct"`
	ScoreTotal    int        `json:"score_total"`
	ScorePercent  int        `json:"score_percent"`
	Status        TestStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TestAnswer is one answered task within a test. Rows are append-only.
type TestAnswer struct {
	ID          uuid.UUID   `json:"id"`
	TestID      uuid.UUID   `json:"test_id"`
	CardID      uuid.UUID   `json:"card_id"`
	ModeUsed    SessionMode `json:"mode_used"`
	PromptShown string      `json:"prompt_shown"`
	UserAnswer  string      `json:"user_answer"`
	IsCorrect   bool        `json:"is_correct"`
	TimeMs      int64       `json:"time_ms"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewTest creates an in-progress Test linked to the given session.
func NewTest(
	userID, sessionID uuid.UUID,
	deckID, folderID *uuid.UUID,
	questionCount int,
	shuffled bool,
	startedAt time.Time,
) (*Test, error) {
	test := &Test{
		ID:            uuid.New(),
		UserID:        userID,
		SessionID:     sessionID,
		DeckID:        deckID,
		FolderID:      folderID,
		QuestionCount: questionCount,
		Shuffled:      shuffled,
		StartedAt:     startedAt,
		Status:        TestStatusInProgress,
		CreatedAt:     startedAt,
		UpdatedAt:     startedAt,
	}

	if err := test.Validate(); err != nil {
		return nil, err
	}

	return test, nil
}

// Validate checks if the Test has valid data.
func (t *Test) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTestIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTestUserIDEmpty
	}

	if t.SessionID == uuid.Nil {
		return ErrTestSessionIDEmpty
	}

	switch t.Status {
	case TestStatusInProgress, TestStatusFinished, TestStatusAbandoned:
	default:
		return ErrInvalidTestStatus
	}

	return nil
}

// Finalize computes the terminal state of the test from its recorded
// answers. The status becomes finished when at least one answer exists,
// abandoned otherwise. The duration is clamped to zero if clock skew
// would make it negative. Finalize is a no-op on an already-terminal
// test, returning ErrTestAlreadyEnded.
func (t *Test) Finalize(scoreCorrect, scoreTotal int, endedAt time.Time) error {
	if t.FinishedAt != nil {
		return ErrTestAlreadyEnded
	}

	t.ScoreCorrect = scoreCorrect
	t.ScoreTotal = scoreTotal

	if scoreTotal > 0 {
		t.ScorePercent = int(math.Round(100 * float64(scoreCorrect) / float64(scoreTotal)))
		t.Status = TestStatusFinished
	} else {
		t.ScorePercent = 0
		t.Status = TestStatusAbandoned
	}

	duration := endedAt.Sub(t.StartedAt)
	if duration < 0 {
		duration = 0
	}
	t.DurationMs = duration.Milliseconds()

	t.FinishedAt = &endedAt
	t.UpdatedAt = endedAt

	return nil
}
