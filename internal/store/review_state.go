package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// ReviewStateStore defines the interface for review state persistence.
// Exactly one row exists per (user, card) pair.
type ReviewStateStore interface {
	// Create saves a new review state entry.
	// Returns ErrReviewStateExists if an entry already exists for the
	// (user, card) pair.
	Create(ctx context.Context, state *domain.ReviewState) error

	// Get retrieves the review state for the (user, card) pair.
	// Returns ErrReviewStateNotFound if no entry exists yet.
	// NOTE: This method does NOT lock the row; do not use it when you
	// plan to update the row under concurrency.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// GetForUpdate retrieves the review state with a row-level lock
	// using SELECT ... FOR UPDATE. Must be called within a transaction;
	// concurrent graders for the same (user, card) serialize on this
	// lock. Returns ErrReviewStateNotFound if no entry exists yet.
	GetForUpdate(ctx context.Context, userID, cardID uuid.UUID) (*domain.ReviewState, error)

	// Update modifies an existing review state entry, identified by its
	// UserID and CardID fields.
	// Returns ErrReviewStateNotFound if the entry does not exist.
	Update(ctx context.Context, state *domain.ReviewState) error

	// ListDueCardIDs returns the card IDs of the user's review states
	// with due_at <= ref (inclusive boundary), restricted to cards in
	// the given decks when deckIDs is non-empty.
	ListDueCardIDs(
		ctx context.Context,
		userID uuid.UUID,
		deckIDs []uuid.UUID,
		ref time.Time,
	) ([]uuid.UUID, error)

	// CountDue returns the number of distinct due review states in the
	// same scope as ListDueCardIDs.
	CountDue(
		ctx context.Context,
		userID uuid.UUID,
		deckIDs []uuid.UUID,
		ref time.Time,
	) (int, error)

	// ListScheduledCardIDs returns the card IDs of every review state the
	// user has in the given deck scope, due or not. Cards absent from this
	// set are new/unscheduled.
	ListScheduledCardIDs(
		ctx context.Context,
		userID uuid.UUID,
		deckIDs []uuid.UUID,
	) ([]uuid.UUID, error)

	// CountCreatedSince returns the number of the user's review states
	// created at or after the given instant. Used to enforce the
	// max-new-cards-per-day cap: a state is created the first time a
	// card enters a session.
	CountCreatedSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new ReviewStateStore instance that uses the
	// provided transaction.
	WithTx(tx *sql.Tx) ReviewStateStore
}
