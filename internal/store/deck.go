package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/domain"
)

// DeckStore defines the interface for deck and folder data persistence.
type DeckStore interface {
	// Create saves a new deck to the store.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck by its unique ID.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// ListIDsByUser returns the IDs of all decks owned by the user,
	// ordered by deck ID.
	ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// ListIDsByFolder returns the IDs of the user's decks inside the
	// given folder, ordered by deck ID. Returns ErrFolderNotFound if the
	// folder does not exist or is not owned by the user.
	ListIDsByFolder(ctx context.Context, userID, folderID uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new DeckStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) DeckStore
}
