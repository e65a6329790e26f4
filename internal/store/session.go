package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// SessionStore defines the interface for session data persistence.
// The task list is stored alongside the session row and is the durable
// source of truth for the session's work.
type SessionStore interface {
	// Create saves a new session, including its snapshotted task list.
	Create(ctx context.Context, session *domain.Session) error

	// GetByID retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// GetForUpdate retrieves a session with a row-level lock. Must be
	// called within a transaction; concurrent task-completion writes for
	// the same session serialize on this lock.
	// Returns ErrSessionNotFound if the session does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Update persists changes to an existing session: task completion
	// marks and the terminal EndedAt timestamp.
	// Returns ErrSessionNotFound if the session does not exist.
	Update(ctx context.Context, session *domain.Session) error

	// Delete removes a session. Dependent rows (the linked test and its
	// answers) are removed by the database's cascade rules.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListEndedSince returns the user's sessions with EndedAt set and
	// EndedAt >= since, ordered by EndedAt.
	ListEndedSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Session, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SessionStore
}
