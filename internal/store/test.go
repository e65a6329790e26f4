package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// TestStore defines the interface for test and test answer persistence.
// Test answers are append-only.
type TestStore interface {
	// Create saves a new test linked to a session.
	Create(ctx context.Context, test *domain.Test) error

	// GetByID retrieves a test by its unique ID.
	// Returns ErrTestNotFound if the test does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Test, error)

	// GetBySessionID retrieves the test linked to the given session.
	// Returns ErrTestNotFound if no test is linked.
	GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.Test, error)

	// Update persists changes to an existing test (finalization fields).
	// Returns ErrTestNotFound if the test does not exist.
	Update(ctx context.Context, test *domain.Test) error

	// CreateAnswer appends one answered task to the test.
	CreateAnswer(ctx context.Context, answer *domain.TestAnswer) error

	// CountAnswers returns the total number of answers recorded for the
	// test and how many of them were correct.
	CountAnswers(ctx context.Context, testID uuid.UUID) (total, correct int, err error)

	// WithTx returns a new TestStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TestStore
}
