// Package session implements the study session lifecycle: starting a
// session materializes its task list from the due set, recording an
// answer grades it and advances the card's review schedule atomically,
// and stopping finalizes linked test scoring.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/domain/match"
)

// Common error types for the session lifecycle
var (
	// ErrSessionNotFound indicates the session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotOwned indicates the session belongs to another user.
	ErrSessionNotOwned = errors.New("unauthorized access: session not owned by user")

	// ErrSessionEnded indicates a write against a session that has
	// already reached its terminal state.
	ErrSessionEnded = errors.New("session has already ended")

	// ErrTaskOutOfRange indicates the task index does not exist in the
	// session's task list.
	ErrTaskOutOfRange = errors.New("task index out of range")

	// ErrTaskAlreadyAnswered indicates the task was already graded; each
	// task accepts exactly one answer.
	ErrTaskAlreadyAnswered = errors.New("task has already been answered")

	// ErrEmptyPool indicates the scope contains no cards eligible for a
	// new session.
	ErrEmptyPool = errors.New("no cards available in scope")

	// ErrConflictRetriesExhausted indicates a grading write kept losing
	// races after the bounded number of retries.
	ErrConflictRetriesExhausted = errors.New("concurrent update conflict: retries exhausted")
)

// StartInput describes a session start request. DeckID and FolderID are
// mutually exclusive; with neither, the scope is every deck the user
// owns.
type StartInput struct {
	DeckID      *uuid.UUID
	FolderID    *uuid.UUID
	Mode        domain.SessionMode
	TargetCount int
}

// StartResult carries the persisted session and, for test mode, the
// linked in-progress test.
type StartResult struct {
	Session *domain.Session
	Test    *domain.Test
}

// AnswerInput describes one graded answer for a session task.
type AnswerInput struct {
	TaskIndex  int
	UserAnswer string
	TimeMs     int64
}

// AnswerResult carries the grading outcome and the card's advanced
// review state.
type AnswerResult struct {
	Result match.Result
	State  *domain.ReviewState
}

// StopResult carries the ended session and, for test mode, the
// finalized test.
type StopResult struct {
	Session *domain.Session
	Test    *domain.Test
}

// Lifecycle drives a study session from start through grading to its
// terminal state.
type Lifecycle interface {
	// Start materializes a new session: due cards first, new cards as
	// backfill up to the daily cap, mode mix applied for mixed sessions.
	// For test mode a linked Test row is created in in_progress status.
	Start(ctx context.Context, userID uuid.UUID, input StartInput) (*StartResult, error)

	// RecordAnswer grades one task: classifies the answer, advances the
	// card's review state, marks the task completed, and for test
	// sessions appends a TestAnswer row. All writes commit atomically;
	// conflicting concurrent writes are retried a bounded number of
	// times.
	RecordAnswer(
		ctx context.Context,
		userID, sessionID uuid.UUID,
		input AnswerInput,
	) (*AnswerResult, error)

	// Stop ends the session. Stopping an already-ended session is a
	// no-op returning the terminal state. For test sessions the linked
	// test's score is computed from its recorded answers.
	Stop(ctx context.Context, userID, sessionID uuid.UUID) (*StopResult, error)

	// Delete removes the session and its dependent rows. Irreversible.
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

// Clock is the injectable time source used for due dates, day
// boundaries, and timestamps.
type Clock func() time.Time
