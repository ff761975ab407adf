package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/whyteferrari/RECALLR/internal/services"
	"github.com/whyteferrari/RECALLR/types"
)

// FlashcardHandler provides HTTP handlers for flashcards.
type FlashcardHandler struct {
	flashcardService *services.FlashcardService
}

func NewFlashcardHandler(flashcardService *services.FlashcardService) *FlashcardHandler {
	return &FlashcardHandler{flashcardService: flashcardService}
}

// FlashcardRouter registers the cross-deck flashcard listing.
func FlashcardRouter(r chi.Router, flashcardService *services.FlashcardService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewFlashcardHandler(flashcardService)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", handler.ListUserFlashcards)
}

// ReconcileRequest is the body of the bulk endpoint. Flashcards is a pointer
// so that an absent or null key can be told apart from an empty list.
type ReconcileRequest struct {
	Flashcards *[]types.FlashcardInput `json:"flashcards"`
}

type ReconcileResponse struct {
	Message string               `json:"message"`
	Stats   types.ReconcileStats `json:"stats"`
}

func (h *FlashcardHandler) ListUserFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	cards, err := h.flashcardService.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "flashcard")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *FlashcardHandler) ListDeckFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	cards, err := h.flashcardService.ListByDeck(r.Context(), userID, deckID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *FlashcardHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}

	var req types.FlashcardInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	card, err := h.flashcardService.Create(r.Context(), userID, deckID, req)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// ReconcileFlashcards replaces the deck's flashcards with the submitted list.
func (h *FlashcardHandler) ReconcileFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}

	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Flashcards == nil {
		writeError(w, http.StatusBadRequest, "flashcards array required")
		return
	}

	stats, err := h.flashcardService.Reconcile(r.Context(), userID, deckID, *req.Flashcards)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}

	writeJSON(w, http.StatusOK, ReconcileResponse{
		Message: "Flashcards updated successfully!",
		Stats:   stats,
	})
}
