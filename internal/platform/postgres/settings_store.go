package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresStudySettingsStore implements the store.StudySettingsStore
// interface using a PostgreSQL database as the storage backend.
type PostgresStudySettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySettingsStore creates a new PostgreSQL implementation
// of the StudySettingsStore interface. If logger is nil, a default
// logger will be used.
func NewPostgresStudySettingsStore(db store.DBTX, logger *slog.Logger) *PostgresStudySettingsStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudySettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresStudySettingsStore implements store.StudySettingsStore interface
var _ store.StudySettingsStore = (*PostgresStudySettingsStore)(nil)

// Get implements store.StudySettingsStore.Get
// Returns store.ErrSettingsNotFound when the user has never saved settings.
func (s *PostgresStudySettingsStore) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StudySettings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, daily_goal_mode, min_sessions_per_day, min_minutes_per_day,
		       mix_translate, mix_abcd, mix_sentence, max_new_per_day,
		       shuffle, sound, auto_advance, dark_mode, created_at, updated_at
		FROM study_settings
		WHERE user_id = $1
	`

	var settings domain.StudySettings
	var goalMode string

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&goalMode,
		&settings.MinSessionsPerDay,
		&settings.MinMinutesPerDay,
		&settings.MixTranslate,
		&settings.MixAbcd,
		&settings.MixSentence,
		&settings.MaxNewPerDay,
		&settings.Shuffle,
		&settings.Sound,
		&settings.AutoAdvance,
		&settings.DarkMode,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study settings not found", slog.String("user_id", userID.String()))
			return nil, store.ErrSettingsNotFound
		}
		log.Error("failed to get study settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	settings.DailyGoalMode = domain.DailyGoalMode(goalMode)
	return &settings, nil
}

// Upsert implements store.StudySettingsStore.Upsert
func (s *PostgresStudySettingsStore) Upsert(
	ctx context.Context,
	settings *domain.StudySettings,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("study settings validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return err
	}

	query := `
		INSERT INTO study_settings (user_id, daily_goal_mode, min_sessions_per_day,
		                            min_minutes_per_day, mix_translate, mix_abcd,
		                            mix_sentence, max_new_per_day, shuffle, sound,
		                            auto_advance, dark_mode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			daily_goal_mode = EXCLUDED.daily_goal_mode,
			min_sessions_per_day = EXCLUDED.min_sessions_per_day,
			min_minutes_per_day = EXCLUDED.min_minutes_per_day,
			mix_translate = EXCLUDED.mix_translate,
			mix_abcd = EXCLUDED.mix_abcd,
			mix_sentence = EXCLUDED.mix_sentence,
			max_new_per_day = EXCLUDED.max_new_per_day,
			shuffle = EXCLUDED.shuffle,
			sound = EXCLUDED.sound,
			auto_advance = EXCLUDED.auto_advance,
			dark_mode = EXCLUDED.dark_mode,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		settings.UserID,
		settings.DailyGoalMode,
		settings.MinSessionsPerDay,
		settings.MinMinutesPerDay,
		settings.MixTranslate,
		settings.MixAbcd,
		settings.MixSentence,
		settings.MaxNewPerDay,
		settings.Shuffle,
		settings.Sound,
		settings.AutoAdvance,
		settings.DarkMode,
		settings.CreatedAt,
		settings.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert study settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return err
	}

	log.Debug("study settings saved", slog.String("user_id", settings.UserID.String()))
	return nil
}

// WithTx implements store.StudySettingsStore.WithTx
func (s *PostgresStudySettingsStore) WithTx(tx *sql.Tx) store.StudySettingsStore {
	return &PostgresStudySettingsStore{
		db:     tx,
		logger: s.logger,
	}
}
