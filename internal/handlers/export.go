package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/whyteferrari/RECALLR/internal/services"
)

// ExportHandler serves deck snapshots kept in object storage.
type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) CreateExport(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	export, err := h.exportService.Create(r.Context(), userID, deckID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusCreated, export)
}

func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	exports, err := h.exportService.List(r.Context(), userID, deckID)
	if err != nil {
		writeServiceError(w, r, err, "deck")
		return
	}
	writeJSON(w, http.StatusOK, exports)
}

func (h *ExportHandler) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	body, err := h.exportService.Open(r.Context(), userID, deckID, chi.URLParam(r, "exportID"))
	if err != nil {
		writeServiceError(w, r, err, "export")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		slog.WarnContext(r.Context(), "failed to stream export", "deck_id", deckID, "error", err)
	}
}

func (h *ExportHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := requireDeckScope(w, r)
	if !ok {
		return
	}
	if err := h.exportService.Delete(r.Context(), userID, deckID, chi.URLParam(r, "exportID")); err != nil {
		writeServiceError(w, r, err, "export")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
