package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// StudySettingsStore defines the interface for per-user study settings
// persistence.
type StudySettingsStore interface {
	// Get retrieves the user's study settings.
	// Returns ErrSettingsNotFound when the user has never saved any;
	// callers fall back to domain.DefaultStudySettings.
	Get(ctx context.Context, userID uuid.UUID) (*domain.StudySettings, error)

	// Upsert creates or replaces the user's study settings.
	Upsert(ctx context.Context, settings *domain.StudySettings) error

	// WithTx returns a new StudySettingsStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) StudySettingsStore
}
