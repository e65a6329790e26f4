package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend. The session's
// task list is stored in a JSONB column and is the durable source of
// truth for the session's work.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of
// the SessionStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

const sessionColumns = `id, user_id, deck_id, mode, target_count, tasks,
	started_at, ended_at, created_at, updated_at`

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	tasks, err := json.Marshal(session.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal session tasks: %w", err)
	}

	query := `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.DeckID,
		session.Mode,
		session.TargetCount,
		tasks,
		session.StartedAt,
		session.EndedAt,
		session.CreatedAt,
		session.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced user or deck not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	log.Info("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(session.Mode)),
		slog.Int("tasks", len(session.Tasks)))
	return nil
}

// GetByID implements store.SessionStore.GetByID
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetForUpdate implements store.SessionStore.GetForUpdate
// It locks the session row so concurrent task-completion writes
// serialize. Must run inside a transaction.
func (s *PostgresSessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`
	return s.getOne(ctx, query, id)
}

// Update implements store.SessionStore.Update
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) Update(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := json.Marshal(session.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal session tasks: %w", err)
	}

	query := `
		UPDATE sessions
		SET tasks = $2, ended_at = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		tasks,
		session.EndedAt,
		session.UpdatedAt,
	)

	if err != nil {
		if isConcurrencyFailure(err) {
			log.Debug("session update lost a race",
				slog.String("session_id", session.ID.String()))
			return fmt.Errorf("%w: session", store.ErrConflict)
		}

		log.Error("failed to update session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrSessionNotFound
	}

	return nil
}

// Delete implements store.SessionStore.Delete
// Dependent test and test answer rows go with the session via ON
// DELETE CASCADE. Returns store.ErrSessionNotFound if the session does
// not exist.
func (s *PostgresSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrSessionNotFound
	}

	log.Info("session deleted", slog.String("session_id", id.String()))
	return nil
}

// ListEndedSince implements store.SessionStore.ListEndedSince
func (s *PostgresSessionStore) ListEndedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1 AND ended_at IS NOT NULL AND ended_at >= $2
		ORDER BY ended_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to list ended sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresSessionStore) getOne(
	ctx context.Context,
	query string,
	id uuid.UUID,
) (*domain.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, err
	}

	return session, nil
}

// scanSession reads one session row, decoding the tasks JSON column.
// Task order in the column is preserved.
func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var tasks []byte
	var mode string

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.DeckID,
		&mode,
		&session.TargetCount,
		&tasks,
		&session.StartedAt,
		&session.EndedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.Mode = domain.SessionMode(mode)

	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &session.Tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session tasks: %w", err)
		}
	}

	return &session, nil
}
