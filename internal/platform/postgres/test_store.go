package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresTestStore implements the store.TestStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTestStore creates a new PostgreSQL implementation of the
// TestStore interface. If logger is nil, a default logger will be used.
func NewPostgresTestStore(db store.DBTX, logger *slog.Logger) *PostgresTestStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTestStore{
		db:     db,
		logger: logger.With(slog.String("component", "test_store")),
	}
}

// Ensure PostgresTestStore implements store.TestStore interface
var _ store.TestStore = (*PostgresTestStore)(nil)

const testColumns = `id, user_id, session_id, deck_id, folder_id,
	question_count, shuffled, started_at, finished_at, duration_ms,
	score_correct, score_total, score_percent, status, created_at, updated_at`

// Create implements store.TestStore.Create
func (s *PostgresTestStore) Create(ctx context.Context, test *domain.Test) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := test.Validate(); err != nil {
		log.Warn("test validation failed during create",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	query := `
		INSERT INTO tests (` + testColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		test.ID,
		test.UserID,
		test.SessionID,
		test.DeckID,
		test.FolderID,
		test.QuestionCount,
		test.Shuffled,
		test.StartedAt,
		test.FinishedAt,
		test.DurationMs,
		test.ScoreCorrect,
		test.ScoreTotal,
		test.ScorePercent,
		test.Status,
		test.CreatedAt,
		test.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced session not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create test",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	log.Info("test created",
		slog.String("test_id", test.ID.String()),
		slog.String("session_id", test.SessionID.String()))
	return nil
}

// GetByID implements store.TestStore.GetByID
// Returns store.ErrTestNotFound if the test does not exist.
func (s *PostgresTestStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Test, error) {
	query := `
		SELECT ` + testColumns + `
		FROM tests
		WHERE id = $1
	`
	return s.getOne(ctx, query, id)
}

// GetBySessionID implements store.TestStore.GetBySessionID
// Returns store.ErrTestNotFound if no test is linked to the session.
func (s *PostgresTestStore) GetBySessionID(
	ctx context.Context,
	sessionID uuid.UUID,
) (*domain.Test, error) {
	query := `
		SELECT ` + testColumns + `
		FROM tests
		WHERE session_id = $1
	`
	return s.getOne(ctx, query, sessionID)
}

// Update implements store.TestStore.Update
// Returns store.ErrTestNotFound if the test does not exist.
func (s *PostgresTestStore) Update(ctx context.Context, test *domain.Test) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tests
		SET finished_at = $2, duration_ms = $3, score_correct = $4,
		    score_total = $5, score_percent = $6, status = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		test.ID,
		test.FinishedAt,
		test.DurationMs,
		test.ScoreCorrect,
		test.ScoreTotal,
		test.ScorePercent,
		test.Status,
		test.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to update test",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrTestNotFound
	}

	return nil
}

// CreateAnswer implements store.TestStore.CreateAnswer
func (s *PostgresTestStore) CreateAnswer(ctx context.Context, answer *domain.TestAnswer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO test_answers (id, test_id, card_id, mode_used, prompt_shown,
		                          user_answer, is_correct, time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		answer.ID,
		answer.TestID,
		answer.CardID,
		answer.ModeUsed,
		answer.PromptShown,
		answer.UserAnswer,
		answer.IsCorrect,
		answer.TimeMs,
		answer.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced test not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create test answer",
			slog.String("error", err.Error()),
			slog.String("test_id", answer.TestID.String()))
		return err
	}

	return nil
}

// CountAnswers implements store.TestStore.CountAnswers
func (s *PostgresTestStore) CountAnswers(
	ctx context.Context,
	testID uuid.UUID,
) (total, correct int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM test_answers
		WHERE test_id = $1
	`

	err = s.db.QueryRowContext(ctx, query, testID).Scan(&total, &correct)
	if err != nil {
		return 0, 0, err
	}
	return total, correct, nil
}

// WithTx implements store.TestStore.WithTx
func (s *PostgresTestStore) WithTx(tx *sql.Tx) store.TestStore {
	return &PostgresTestStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresTestStore) getOne(
	ctx context.Context,
	query string,
	id uuid.UUID,
) (*domain.Test, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var test domain.Test
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&test.ID,
		&test.UserID,
		&test.SessionID,
		&test.DeckID,
		&test.FolderID,
		&test.QuestionCount,
		&test.Shuffled,
		&test.StartedAt,
		&test.FinishedAt,
		&test.DurationMs,
		&test.ScoreCorrect,
		&test.ScoreTotal,
		&test.ScorePercent,
		&status,
		&test.CreatedAt,
		&test.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("test not found", slog.String("id", id.String()))
			return nil, store.ErrTestNotFound
		}
		log.Error("failed to get test",
			slog.String("error", err.Error()),
			slog.String("id", id.String()))
		return nil, err
	}

	test.Status = domain.TestStatus(status)
	return &test, nil
}
