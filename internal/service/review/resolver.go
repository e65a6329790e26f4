// Package review resolves the set of cards a user should study: scope
// resolution over decks and folders, due-set pagination, and compact
// card projections for the study surface.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// Page size bounds for due-set resolution. Requests outside the bounds
// are clamped, not rejected.
const (
	DefaultPageSize = 50
	MinPageSize     = 10
	MaxPageSize     = 100
)

// Common error types for the due-set resolver
var (
	// ErrScopeConflict indicates both a deck and a folder were given;
	// the scope accepts at most one of them.
	ErrScopeConflict = errors.New("deck and folder scope are mutually exclusive")

	// ErrDeckNotFound indicates the scoped deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrFolderNotFound indicates the scoped folder does not exist.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrDeckNotOwned indicates the scoped deck belongs to another user.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// Query describes one due-set resolution request. DeckID and FolderID
// are mutually exclusive; when both are nil the scope is every deck the
// user owns. A zero Ref means "now".
type Query struct {
	DeckID      *uuid.UUID
	FolderID    *uuid.UUID
	PageSize    int
	Offset      int
	DueOnly     bool
	StarredOnly bool
	Ref         time.Time
}

// CardSummary is the compact card projection returned to study surfaces.
type CardSummary struct {
	ID     uuid.UUID `json:"id"`
	DeckID uuid.UUID `json:"deckId"`
	Front  string    `json:"front"`
	Back   string    `json:"back"`
	Due    bool      `json:"due"`
}

// Page is one page of resolved cards. NextOffset is nil on the last
// page. TotalDue counts every due review state in scope, independent of
// pagination.
type Page struct {
	Cards      []CardSummary `json:"cards"`
	NextOffset *int          `json:"nextCursor"`
	TotalDue   int           `json:"totalDue"`
}

// DueSetResolver resolves which of a user's cards are due for study.
type DueSetResolver interface {
	// Resolve returns one page of cards in the requested scope, each
	// marked due or not, plus the total due count for the scope.
	Resolve(ctx context.Context, userID uuid.UUID, query Query) (*Page, error)
}

// Verify interface compliance at compile time
var _ DueSetResolver = (*dueSetResolver)(nil)

type dueSetResolver struct {
	cardStore  store.CardStore
	deckStore  store.DeckStore
	stateStore store.ReviewStateStore
	logger     *slog.Logger
}

// NewDueSetResolver creates a new DueSetResolver implementation.
func NewDueSetResolver(
	cardStore store.CardStore,
	deckStore store.DeckStore,
	stateStore store.ReviewStateStore,
	logger *slog.Logger,
) DueSetResolver {
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("deckStore cannot be nil")
	}
	if stateStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stateStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &dueSetResolver{
		cardStore:  cardStore,
		deckStore:  deckStore,
		stateStore: stateStore,
		logger:     logger.With(slog.String("component", "due_set_resolver")),
	}
}

// ResolveScope expands a deck/folder scope into the concrete deck-id
// set for the user. An explicit deck must exist and be owned by the
// user; a folder expands to the user's decks inside it; with neither,
// the returned slice is empty, which store queries treat as "all decks
// owned by the user".
func ResolveScope(
	ctx context.Context,
	deckStore store.DeckStore,
	userID uuid.UUID,
	deckID, folderID *uuid.UUID,
) ([]uuid.UUID, error) {
	if deckID != nil && folderID != nil {
		return nil, ErrScopeConflict
	}

	if deckID != nil {
		deck, err := deckStore.GetByID(ctx, *deckID)
		if err != nil {
			if errors.Is(err, store.ErrDeckNotFound) {
				return nil, ErrDeckNotFound
			}
			return nil, fmt.Errorf("failed to resolve deck scope: %w", err)
		}
		if deck.UserID != userID {
			return nil, ErrDeckNotOwned
		}
		return []uuid.UUID{deck.ID}, nil
	}

	if folderID != nil {
		deckIDs, err := deckStore.ListIDsByFolder(ctx, userID, *folderID)
		if err != nil {
			if errors.Is(err, store.ErrFolderNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, fmt.Errorf("failed to resolve folder scope: %w", err)
		}
		return deckIDs, nil
	}

	return nil, nil
}

// Resolve implements DueSetResolver.Resolve.
func (r *dueSetResolver) Resolve(
	ctx context.Context,
	userID uuid.UUID,
	query Query,
) (*Page, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	pageSize := clampPageSize(query.PageSize)
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	ref := query.Ref
	if ref.IsZero() {
		ref = time.Now().UTC()
	}

	deckIDs, err := ResolveScope(ctx, r.deckStore, userID, query.DeckID, query.FolderID)
	if err != nil {
		return nil, err
	}

	// A folder scope that contains no decks yields an empty page
	// without touching the card store.
	if query.FolderID != nil && len(deckIDs) == 0 {
		return &Page{Cards: []CardSummary{}}, nil
	}

	totalDue, err := r.stateStore.CountDue(ctx, userID, deckIDs, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to count due states: %w", err)
	}

	dueIDs, err := r.stateStore.ListDueCardIDs(ctx, userID, deckIDs, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list due card IDs: %w", err)
	}
	dueSet := make(map[uuid.UUID]struct{}, len(dueIDs))
	for _, id := range dueIDs {
		dueSet[id] = struct{}{}
	}

	// Fetch one extra row to decide whether a next page exists.
	cards, err := r.cardStore.ListByOwner(
		ctx, userID, deckIDs, query.StarredOnly, pageSize+1, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	hasMore := len(cards) > pageSize
	if hasMore {
		cards = cards[:pageSize]
	}

	summaries := make([]CardSummary, 0, len(cards))
	for _, card := range cards {
		_, due := dueSet[card.ID]
		if query.DueOnly && !due {
			continue
		}
		summaries = append(summaries, CardSummary{
			ID:     card.ID,
			DeckID: card.DeckID,
			Front:  card.Front,
			Back:   card.Back,
			Due:    due,
		})
	}

	page := &Page{
		Cards:    summaries,
		TotalDue: totalDue,
	}
	if hasMore {
		next := offset + pageSize
		page.NextOffset = &next
	}

	log.Debug("resolved due set",
		slog.String("user_id", userID.String()),
		slog.Int("cards", len(summaries)),
		slog.Int("total_due", totalDue))

	return page, nil
}

func clampPageSize(size int) int {
	switch {
	case size == 0:
		return DefaultPageSize
	case size < MinPageSize:
		return MinPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
