package api

import (
	"errors"
	"net/http"

	"github.com/wordloop/wordloop-api/internal/api/shared"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/domain/match"
	"github.com/wordloop/wordloop-api/internal/service/review"
	"github.com/wordloop/wordloop-api/internal/store"
)

// ReviewHandler serves due-set resolution and answer hints.
type ReviewHandler struct {
	resolver  review.DueSetResolver
	cardStore store.CardStore
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(resolver review.DueSetResolver, cardStore store.CardStore) *ReviewHandler {
	return &ReviewHandler{
		resolver:  resolver,
		cardStore: cardStore,
	}
}

// DueCards handles GET /cards/due. Query parameters: deck_id or
// folder_id (mutually exclusive), page_size, offset, due_only,
// starred_only.
func (h *ReviewHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, err := queryUUID(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid deck_id")
		return
	}
	folderID, err := queryUUID(r, "folder_id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid folder_id")
		return
	}

	page, err := h.resolver.Resolve(r.Context(), userID, review.Query{
		DeckID:      deckID,
		FolderID:    folderID,
		PageSize:    queryInt(r, "page_size", 0),
		Offset:      queryInt(r, "offset", 0),
		DueOnly:     queryBool(r, "due_only"),
		StarredOnly: queryBool(r, "starred_only"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCardsResponse{
		Cards:      page.Cards,
		NextCursor: page.NextOffset,
		TotalDue:   page.TotalDue,
	})
}

// Hint handles GET /cards/{id}/hint: the card's answer masked down to
// word-initial letters.
func (h *ReviewHandler) Hint(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid card ID")
		return
	}

	card, err := h.cardStore.GetByID(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			HandleAPIError(w, r, err, "")
			return
		}
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}
	if card.UserID != userID {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, HintResponse{
		CardID: card.ID,
		Hint:   match.Hint(card.Back),
	})
}
