package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListByOwner retrieves a page of the user's cards restricted to the
	// given deck IDs (all of the user's cards when deckIDs is empty),
	// ordered by card ID for stable pagination. When starredOnly is set,
	// only starred cards are returned.
	ListByOwner(
		ctx context.Context,
		userID uuid.UUID,
		deckIDs []uuid.UUID,
		starredOnly bool,
		limit, offset int,
	) ([]*domain.Card, error)

	// Delete removes a card from the store by its ID. Associated review
	// state rows are removed by the database's cascade rules.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
