package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresReviewStateStore implements the store.ReviewStateStore
// interface using a PostgreSQL database as the storage backend.
type PostgresReviewStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStateStore creates a new PostgreSQL implementation
// of the ReviewStateStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresReviewStateStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_state_store")),
	}
}

// Ensure PostgresReviewStateStore implements store.ReviewStateStore interface
var _ store.ReviewStateStore = (*PostgresReviewStateStore)(nil)

const reviewStateColumns = `user_id, card_id, level, due_at,
	total_correct, total_wrong, today_correct, today_wrong,
	last_reviewed_at, created_at, updated_at`

// Create implements store.ReviewStateStore.Create
// Returns store.ErrReviewStateExists if a state already exists for the
// (user, card) pair; exactly one state per pair is allowed.
func (s *PostgresReviewStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return err
	}

	query := `
		INSERT INTO review_states (` + reviewStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.CardID,
		state.Level,
		state.DueAt,
		state.TotalCorrect,
		state.TotalWrong,
		state.TodayCorrect,
		state.TodayWrong,
		nullableTime(state.LastReviewedAt),
		state.CreatedAt,
		state.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("review state already exists",
				slog.String("user_id", state.UserID.String()),
				slog.String("card_id", state.CardID.String()))
			return store.ErrReviewStateExists
		}

		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced user or card not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create review state",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return err
	}

	return nil
}

// Get implements store.ReviewStateStore.Get
// Returns store.ErrReviewStateNotFound if no entry exists.
func (s *PostgresReviewStateStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id = $2
	`
	return s.getOne(ctx, query, userID, cardID)
}

// GetForUpdate implements store.ReviewStateStore.GetForUpdate
// It locks the row with SELECT ... FOR UPDATE; concurrent graders of
// the same (user, card) serialize on this lock. Must run inside a
// transaction.
func (s *PostgresReviewStateStore) GetForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	query := `
		SELECT ` + reviewStateColumns + `
		FROM review_states
		WHERE user_id = $1 AND card_id = $2
		FOR UPDATE
	`
	return s.getOne(ctx, query, userID, cardID)
}

// Update implements store.ReviewStateStore.Update
// Returns store.ErrReviewStateNotFound if the entry does not exist.
func (s *PostgresReviewStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("review state validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return err
	}

	query := `
		UPDATE review_states
		SET level = $3, due_at = $4, total_correct = $5, total_wrong = $6,
		    today_correct = $7, today_wrong = $8, last_reviewed_at = $9,
		    updated_at = $10
		WHERE user_id = $1 AND card_id = $2
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.CardID,
		state.Level,
		state.DueAt,
		state.TotalCorrect,
		state.TotalWrong,
		state.TodayCorrect,
		state.TodayWrong,
		nullableTime(state.LastReviewedAt),
		state.UpdatedAt,
	)

	if err != nil {
		if isConcurrencyFailure(err) {
			log.Debug("review state update lost a race",
				slog.String("user_id", state.UserID.String()),
				slog.String("card_id", state.CardID.String()))
			return fmt.Errorf("%w: review state", store.ErrConflict)
		}

		log.Error("failed to update review state",
			slog.String("error", err.Error()),
			slog.String("card_id", state.CardID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return store.ErrReviewStateNotFound
	}

	return nil
}

// ListDueCardIDs implements store.ReviewStateStore.ListDueCardIDs
// The due boundary is inclusive: due_at <= ref.
func (s *PostgresReviewStateStore) ListDueCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT rs.card_id
		FROM review_states rs
		JOIN cards c ON c.id = rs.card_id
		WHERE rs.user_id = $1
		  AND rs.due_at <= $2
		  AND (cardinality($3::uuid[]) = 0 OR c.deck_id = ANY($3::uuid[]))
		ORDER BY rs.card_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, ref, uuidArray(deckIDs))
	if err != nil {
		log.Error("failed to list due card IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountDue implements store.ReviewStateStore.CountDue
func (s *PostgresReviewStateStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_states rs
		JOIN cards c ON c.id = rs.card_id
		WHERE rs.user_id = $1
		  AND rs.due_at <= $2
		  AND (cardinality($3::uuid[]) = 0 OR c.deck_id = ANY($3::uuid[]))
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, ref, uuidArray(deckIDs)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListScheduledCardIDs implements store.ReviewStateStore.ListScheduledCardIDs
func (s *PostgresReviewStateStore) ListScheduledCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT rs.card_id
		FROM review_states rs
		JOIN cards c ON c.id = rs.card_id
		WHERE rs.user_id = $1
		  AND (cardinality($2::uuid[]) = 0 OR c.deck_id = ANY($2::uuid[]))
		ORDER BY rs.card_id
	`

	rows, err := s.db.QueryContext(ctx, query, userID, uuidArray(deckIDs))
	if err != nil {
		log.Error("failed to list scheduled card IDs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountCreatedSince implements store.ReviewStateStore.CountCreatedSince
func (s *PostgresReviewStateStore) CountCreatedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_states
		WHERE user_id = $1 AND created_at >= $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// WithTx implements store.ReviewStateStore.WithTx
func (s *PostgresReviewStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore {
	return &PostgresReviewStateStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresReviewStateStore) getOne(
	ctx context.Context,
	query string,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var state domain.ReviewState
	var lastReviewed sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&state.UserID,
		&state.CardID,
		&state.Level,
		&state.DueAt,
		&state.TotalCorrect,
		&state.TotalWrong,
		&state.TodayCorrect,
		&state.TodayWrong,
		&lastReviewed,
		&state.CreatedAt,
		&state.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review state not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, store.ErrReviewStateNotFound
		}
		log.Error("failed to get review state",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	if lastReviewed.Valid {
		state.LastReviewedAt = lastReviewed.Time
	}

	return &state, nil
}

// nullableTime maps the zero time to NULL for never-reviewed states.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
