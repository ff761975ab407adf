package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/whyteferrari/RECALLR/internal/services"
)

// DeckHandler provides HTTP handlers for decks.
type DeckHandler struct {
	deckService *services.DeckService
}

func NewDeckHandler(deckService *services.DeckService) *DeckHandler {
	return &DeckHandler{deckService: deckService}
}

// DeckRouter registers deck routes, including the deck-scoped flashcard and
// export routes, on the given router. Every route requires authentication.
func DeckRouter(
	r chi.Router,
	deckService *services.DeckService,
	flashcardService *services.FlashcardService,
	exportService *services.ExportService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewDeckHandler(deckService)
	flashcards := NewFlashcardHandler(flashcardService)
	exports := NewExportHandler(exportService)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", handler.ListDecks)
	r.Post("/", handler.CreateDeck)
	r.Get("/ongoing", handler.ListOngoingDecks)
	r.Get("/archived", handler.ListArchivedDecks)
	r.Route("/{deckID}", func(r chi.Router) {
		r.Get("/", handler.GetDeck)
		r.Put("/", handler.UpdateDeck)
		r.Delete("/", handler.DeleteDeck)
		r.Post("/archive", handler.ArchiveDeck)
		r.Post("/recover", handler.RecoverDeck)

		r.Get("/flashcards", flashcards.ListDeckFlashcards)
		r.Post("/flashcards", flashcards.CreateFlashcard)
		r.Post("/flashcards/bulk", flashcards.ReconcileFlashcards)

		r.Get("/exports", exports.ListExports)
		r.Post("/exports", exports.CreateExport)
		r.Get("/exports/{exportID}", exports.GetExport)
		r.Delete("/exports/{exportID}", exports.DeleteExport)
	})
}

// FolderRouter registers the folder aggregate route.
func FolderRouter(r chi.Router, deckService *services.DeckService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewDeckHandler(deckService)

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}
	r.Get("/", handler.ListFolders)
}

func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	decks, err := h.deckService.ListActive(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) ListOngoingDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	decks, err := h.deckService.ListOngoing(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) ListArchivedDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	decks, err := h.deckService.ListArchived(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, decks)
}

func (h *DeckHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	folders, err := h.deckService.Folders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "folder")
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.DeckInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	deck, err := h.deckService.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusCreated, deck)
}

func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	deck, err := h.deckService.Get(r.Context(), userID, deckID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}

	var req services.DeckInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	deck, err := h.deckService.Update(r.Context(), userID, deckID, req)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, deck)
}

func (h *DeckHandler) ArchiveDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	if err := h.deckService.Archive(r.Context(), userID, deckID); err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Deck archived successfully"})
}

func (h *DeckHandler) RecoverDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	if err := h.deckService.Recover(r.Context(), userID, deckID); err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Deck recovered successfully"})
}

func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	if err := h.deckService.Delete(r.Context(), userID, deckID); err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Deck deleted successfully"})
}
