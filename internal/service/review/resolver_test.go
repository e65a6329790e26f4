package review

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/store"
)

// stubCardStore serves a fixed card list ordered by ID.
type stubCardStore struct {
	cards []*domain.Card
}

func (s *stubCardStore) Create(ctx context.Context, card *domain.Card) error { return nil }

func (s *stubCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	for _, card := range s.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return nil, store.ErrCardNotFound
}

func (s *stubCardStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	starredOnly bool,
	limit, offset int,
) ([]*domain.Card, error) {
	deckSet := make(map[uuid.UUID]struct{}, len(deckIDs))
	for _, id := range deckIDs {
		deckSet[id] = struct{}{}
	}

	var matched []*domain.Card
	for _, card := range s.cards {
		if card.UserID != userID {
			continue
		}
		if len(deckSet) > 0 {
			if _, ok := deckSet[card.DeckID]; !ok {
				continue
			}
		}
		if starredOnly && !card.Starred {
			continue
		}
		matched = append(matched, card)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (s *stubCardStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubCardStore) WithTx(tx *sql.Tx) store.CardStore              { return s }

// stubDeckStore serves decks and folder membership from fixed maps.
type stubDeckStore struct {
	decks   map[uuid.UUID]*domain.Deck
	folders map[uuid.UUID][]uuid.UUID
}

func (s *stubDeckStore) Create(ctx context.Context, deck *domain.Deck) error { return nil }

func (s *stubDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := s.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (s *stubDeckStore) ListIDsByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, deck := range s.decks {
		if deck.UserID == userID {
			ids = append(ids, deck.ID)
		}
	}
	return ids, nil
}

func (s *stubDeckStore) ListIDsByFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
) ([]uuid.UUID, error) {
	ids, ok := s.folders[folderID]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	return ids, nil
}

func (s *stubDeckStore) WithTx(tx *sql.Tx) store.DeckStore { return s }

// stubStateStore marks a fixed set of cards as due.
type stubStateStore struct {
	dueCardIDs []uuid.UUID
}

func (s *stubStateStore) Create(ctx context.Context, state *domain.ReviewState) error {
	return nil
}

func (s *stubStateStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	return nil, store.ErrReviewStateNotFound
}

func (s *stubStateStore) GetForUpdate(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.ReviewState, error) {
	return nil, store.ErrReviewStateNotFound
}

func (s *stubStateStore) Update(ctx context.Context, state *domain.ReviewState) error {
	return nil
}

func (s *stubStateStore) ListDueCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) ([]uuid.UUID, error) {
	return s.dueCardIDs, nil
}

func (s *stubStateStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	ref time.Time,
) (int, error) {
	return len(s.dueCardIDs), nil
}

func (s *stubStateStore) ListScheduledCardIDs(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	return s.dueCardIDs, nil
}

func (s *stubStateStore) CountCreatedSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) (int, error) {
	return 0, nil
}

func (s *stubStateStore) WithTx(tx *sql.Tx) store.ReviewStateStore { return s }

var (
	_ store.CardStore        = (*stubCardStore)(nil)
	_ store.DeckStore        = (*stubDeckStore)(nil)
	_ store.ReviewStateStore = (*stubStateStore)(nil)
)

func TestClampPageSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses the default", 0, DefaultPageSize},
		{"below minimum clamps up", 3, MinPageSize},
		{"above maximum clamps down", 500, MaxPageSize},
		{"in range passes through", 42, 42},
		{"minimum boundary", MinPageSize, MinPageSize},
		{"maximum boundary", MaxPageSize, MaxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clampPageSize(tt.in))
		})
	}
}

func TestResolveScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	deckID := uuid.New()
	folderID := uuid.New()
	folderDeckA := uuid.New()
	folderDeckB := uuid.New()

	decks := &stubDeckStore{
		decks: map[uuid.UUID]*domain.Deck{
			deckID: {ID: deckID, UserID: userID, Name: "own"},
		},
		folders: map[uuid.UUID][]uuid.UUID{
			folderID: {folderDeckA, folderDeckB},
		},
	}

	t.Run("deck and folder conflict", func(t *testing.T) {
		t.Parallel()
		_, err := ResolveScope(ctx, decks, userID, &deckID, &folderID)
		assert.ErrorIs(t, err, ErrScopeConflict)
	})

	t.Run("deck scope", func(t *testing.T) {
		t.Parallel()
		ids, err := ResolveScope(ctx, decks, userID, &deckID, nil)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{deckID}, ids)
	})

	t.Run("missing deck", func(t *testing.T) {
		t.Parallel()
		missing := uuid.New()
		_, err := ResolveScope(ctx, decks, userID, &missing, nil)
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})

	t.Run("deck owned by someone else", func(t *testing.T) {
		t.Parallel()
		_, err := ResolveScope(ctx, decks, uuid.New(), &deckID, nil)
		assert.ErrorIs(t, err, ErrDeckNotOwned)
	})

	t.Run("folder scope expands to its decks", func(t *testing.T) {
		t.Parallel()
		ids, err := ResolveScope(ctx, decks, userID, nil, &folderID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{folderDeckA, folderDeckB}, ids)
	})

	t.Run("missing folder", func(t *testing.T) {
		t.Parallel()
		missing := uuid.New()
		_, err := ResolveScope(ctx, decks, userID, nil, &missing)
		assert.ErrorIs(t, err, ErrFolderNotFound)
	})

	t.Run("no scope means all decks", func(t *testing.T) {
		t.Parallel()
		ids, err := ResolveScope(ctx, decks, userID, nil, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userID := uuid.New()
	deckID := uuid.New()

	makeCards := func(n int) []*domain.Card {
		cards := make([]*domain.Card, n)
		for i := range cards {
			cards[i] = &domain.Card{
				ID:     uuid.New(),
				UserID: userID,
				DeckID: deckID,
				Front:  "front",
				Back:   "back",
			}
		}
		sort.Slice(cards, func(i, j int) bool {
			return cards[i].ID.String() < cards[j].ID.String()
		})
		return cards
	}

	decks := &stubDeckStore{
		decks: map[uuid.UUID]*domain.Deck{
			deckID: {ID: deckID, UserID: userID, Name: "vocab"},
		},
		folders: map[uuid.UUID][]uuid.UUID{},
	}

	t.Run("marks due cards and reports the total", func(t *testing.T) {
		t.Parallel()

		cards := makeCards(5)
		resolver := NewDueSetResolver(
			&stubCardStore{cards: cards},
			decks,
			&stubStateStore{dueCardIDs: []uuid.UUID{cards[1].ID, cards[3].ID}},
			nil,
		)

		page, err := resolver.Resolve(ctx, userID, Query{DeckID: &deckID})
		require.NoError(t, err)
		require.Len(t, page.Cards, 5)

		assert.Equal(t, 2, page.TotalDue)
		assert.False(t, page.Cards[0].Due)
		assert.True(t, page.Cards[1].Due)
		assert.False(t, page.Cards[2].Due)
		assert.True(t, page.Cards[3].Due)
		assert.Nil(t, page.NextOffset)
	})

	t.Run("paginates with a next offset", func(t *testing.T) {
		t.Parallel()

		cards := makeCards(25)
		resolver := NewDueSetResolver(
			&stubCardStore{cards: cards}, decks, &stubStateStore{}, nil)

		first, err := resolver.Resolve(ctx, userID, Query{
			DeckID:   &deckID,
			PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, first.Cards, 10)
		require.NotNil(t, first.NextOffset)
		assert.Equal(t, 10, *first.NextOffset)

		second, err := resolver.Resolve(ctx, userID, Query{
			DeckID:   &deckID,
			PageSize: 10,
			Offset:   *first.NextOffset,
		})
		require.NoError(t, err)
		require.Len(t, second.Cards, 10)
		require.NotNil(t, second.NextOffset)

		last, err := resolver.Resolve(ctx, userID, Query{
			DeckID:   &deckID,
			PageSize: 10,
			Offset:   *second.NextOffset,
		})
		require.NoError(t, err)
		assert.Len(t, last.Cards, 5)
		assert.Nil(t, last.NextOffset)

		// No card appears on two pages.
		seen := make(map[uuid.UUID]bool)
		for _, page := range [][]CardSummary{first.Cards, second.Cards, last.Cards} {
			for _, card := range page {
				assert.False(t, seen[card.ID])
				seen[card.ID] = true
			}
		}
		assert.Len(t, seen, 25)
	})

	t.Run("due only filters within the page", func(t *testing.T) {
		t.Parallel()

		cards := makeCards(5)
		resolver := NewDueSetResolver(
			&stubCardStore{cards: cards},
			decks,
			&stubStateStore{dueCardIDs: []uuid.UUID{cards[0].ID, cards[4].ID}},
			nil,
		)

		page, err := resolver.Resolve(ctx, userID, Query{
			DeckID:  &deckID,
			DueOnly: true,
		})
		require.NoError(t, err)
		require.Len(t, page.Cards, 2)
		assert.Equal(t, cards[0].ID, page.Cards[0].ID)
		assert.Equal(t, cards[4].ID, page.Cards[1].ID)
	})

	t.Run("starred only", func(t *testing.T) {
		t.Parallel()

		cards := makeCards(4)
		cards[2].Starred = true
		resolver := NewDueSetResolver(
			&stubCardStore{cards: cards}, decks, &stubStateStore{}, nil)

		page, err := resolver.Resolve(ctx, userID, Query{
			DeckID:      &deckID,
			StarredOnly: true,
		})
		require.NoError(t, err)
		require.Len(t, page.Cards, 1)
		assert.Equal(t, cards[2].ID, page.Cards[0].ID)
	})

	t.Run("empty folder yields an empty page", func(t *testing.T) {
		t.Parallel()

		folderID := uuid.New()
		emptyFolderDecks := &stubDeckStore{
			decks:   map[uuid.UUID]*domain.Deck{},
			folders: map[uuid.UUID][]uuid.UUID{folderID: {}},
		}
		resolver := NewDueSetResolver(
			&stubCardStore{}, emptyFolderDecks, &stubStateStore{}, nil)

		page, err := resolver.Resolve(ctx, userID, Query{FolderID: &folderID})
		require.NoError(t, err)
		assert.Empty(t, page.Cards)
		assert.Nil(t, page.NextOffset)
	})

	t.Run("scope errors pass through", func(t *testing.T) {
		t.Parallel()

		resolver := NewDueSetResolver(
			&stubCardStore{}, decks, &stubStateStore{}, nil)

		otherDeck := uuid.New()
		_, err := resolver.Resolve(ctx, userID, Query{DeckID: &otherDeck})
		assert.ErrorIs(t, err, ErrDeckNotFound)
	})
}
