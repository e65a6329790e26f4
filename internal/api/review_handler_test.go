package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/store"
)

// stubResolver is a canned-response review.DueSetResolver.
type stubResolver struct {
	page     *review.Page
	err      error
	gotQuery review.Query
}

func (s *stubResolver) Resolve(
	ctx context.Context,
	userID uuid.UUID,
	query review.Query,
) (*review.Page, error) {
	s.gotQuery = query
	return s.page, s.err
}

var _ review.DueSetResolver = (*stubResolver)(nil)

// singleCardStore serves exactly one card by ID.
type singleCardStore struct {
	card *domain.Card
}

func (s *singleCardStore) Create(ctx context.Context, card *domain.Card) error { return nil }

func (s *singleCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if s.card == nil || s.card.ID != id {
		return nil, store.ErrCardNotFound
	}
	copied := *s.card
	return &copied, nil
}

func (s *singleCardStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
	deckIDs []uuid.UUID,
	starredOnly bool,
	limit, offset int,
) ([]*domain.Card, error) {
	return nil, nil
}

func (s *singleCardStore) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *singleCardStore) WithTx(tx *sql.Tx) store.CardStore { return s }

var _ store.CardStore = (*singleCardStore)(nil)

func reviewRouter(resolver review.DueSetResolver, cards store.CardStore) http.Handler {
	handler := NewReviewHandler(resolver, cards)
	r := chi.NewRouter()
	r.Get("/cards/due", handler.DueCards)
	r.Get("/cards/{id}/hint", handler.Hint)
	return r
}

func TestReviewHandlerDueCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns the resolved page", func(t *testing.T) {
		t.Parallel()

		next := 20
		resolver := &stubResolver{
			page: &review.Page{
				Cards: []review.CardSummary{
					{ID: uuid.New(), DeckID: uuid.New(), Front: "der Hund", Back: "dog", Due: true},
					{ID: uuid.New(), DeckID: uuid.New(), Front: "die Katze", Back: "cat", Due: false},
				},
				NextOffset: &next,
				TotalDue:   7,
			},
		}

		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/due?page_size=20&due_only=true", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp DueCardsResponse
		decodeBody(t, rec, &resp)
		require.Len(t, resp.Cards, 2)
		assert.Equal(t, "der Hund", resp.Cards[0].Front)
		assert.True(t, resp.Cards[0].Due)
		require.NotNil(t, resp.NextCursor)
		assert.Equal(t, 20, *resp.NextCursor)
		assert.Equal(t, 7, resp.TotalDue)

		assert.Equal(t, 20, resolver.gotQuery.PageSize)
		assert.True(t, resolver.gotQuery.DueOnly)
		assert.False(t, resolver.gotQuery.StarredOnly)
	})

	t.Run("deck scope is forwarded", func(t *testing.T) {
		t.Parallel()

		deckID := uuid.New()
		resolver := &stubResolver{page: &review.Page{Cards: []review.CardSummary{}}}

		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/due?deck_id="+deckID.String(), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, resolver.gotQuery.DeckID)
		assert.Equal(t, deckID, *resolver.gotQuery.DeckID)
	})

	t.Run("malformed deck_id", func(t *testing.T) {
		t.Parallel()

		resolver := &stubResolver{}
		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/due?deck_id=not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deck and folder together conflict", func(t *testing.T) {
		t.Parallel()

		resolver := &stubResolver{err: review.ErrScopeConflict}
		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet,
				"/cards/due?deck_id="+uuid.NewString()+"&folder_id="+uuid.NewString(), nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("someone else's deck is forbidden", func(t *testing.T) {
		t.Parallel()

		resolver := &stubResolver{err: review.ErrDeckNotOwned}
		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/due?deck_id="+uuid.NewString(), nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing user is unauthorized", func(t *testing.T) {
		t.Parallel()

		resolver := &stubResolver{}
		rec := httptest.NewRecorder()
		reviewRouter(resolver, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, uuid.Nil, http.MethodGet, "/cards/due", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReviewHandlerHint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := &domain.Card{
		ID:     uuid.New(),
		UserID: userID,
		DeckID: uuid.New(),
		Front:  "das Pferd",
		Back:   "the horse",
	}

	t.Run("masks the answer to word-initial letters", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		reviewRouter(&stubResolver{}, &singleCardStore{card: card}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/"+card.ID.String()+"/hint", nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp HintResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, card.ID, resp.CardID)
		assert.Equal(t, "t _ _  h _ _ _ _", resp.Hint)
	})

	t.Run("someone else's card is forbidden", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		reviewRouter(&stubResolver{}, &singleCardStore{card: card}).ServeHTTP(rec,
			authedRequest(t, uuid.New(), http.MethodGet, "/cards/"+card.ID.String()+"/hint", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown card", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		reviewRouter(&stubResolver{}, &singleCardStore{}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/"+uuid.NewString()+"/hint", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed card ID", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		reviewRouter(&stubResolver{}, &singleCardStore{card: card}).ServeHTTP(rec,
			authedRequest(t, userID, http.MethodGet, "/cards/nope/hint", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
