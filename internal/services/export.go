package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/whyteferrari/RECALLR/internal/storage"
	"github.com/whyteferrari/RECALLR/internal/store"
	"github.com/whyteferrari/RECALLR/types"
)

const exportContentType = "application/json"

// ObjectStore is the subset of object storage used for deck exports.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	Bucket() string
}

// FlashcardLister lists the flashcards of a deck.
type FlashcardLister interface {
	ListByDeck(ctx context.Context, deckID int) ([]types.Flashcard, error)
}

// DeckSnapshot is the document written for a deck export.
type DeckSnapshot struct {
	ExportID   string            `json:"export_id"`
	ExportedAt time.Time         `json:"exported_at"`
	Deck       types.Deck        `json:"deck"`
	Flashcards []types.Flashcard `json:"flashcards"`
}

// ExportService writes deck snapshots to object storage.
type ExportService struct {
	objects    ObjectStore
	decks      DeckAuthorizer
	flashcards FlashcardLister
}

// NewExportService constructs an ExportService. A nil objects store makes
// every operation fail with ErrStorageUnavailable.
func NewExportService(objects ObjectStore, decks DeckAuthorizer, flashcards FlashcardLister) *ExportService {
	return &ExportService{objects: objects, decks: decks, flashcards: flashcards}
}

func (s *ExportService) Create(ctx context.Context, userID, deckID int) (types.DeckExport, error) {
	if s.objects == nil {
		return types.DeckExport{}, ErrStorageUnavailable
	}

	deck, err := s.decks.Authorize(ctx, userID, deckID)
	if err != nil {
		return types.DeckExport{}, err
	}
	cards, err := s.flashcards.ListByDeck(ctx, deckID)
	if err != nil {
		return types.DeckExport{}, fmt.Errorf("list flashcards: %w", err)
	}

	snapshot := DeckSnapshot{
		ExportID:   uuid.NewString(),
		ExportedAt: time.Now().UTC(),
		Deck:       deck,
		Flashcards: cards,
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return types.DeckExport{}, fmt.Errorf("encode export: %w", err)
	}

	key := exportKey(userID, deckID, snapshot.ExportID)
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), exportContentType); err != nil {
		return types.DeckExport{}, fmt.Errorf("upload export: %w", err)
	}

	return types.DeckExport{
		ID:             snapshot.ExportID,
		DeckID:         deckID,
		Bucket:         s.objects.Bucket(),
		ObjectKey:      key,
		FlashcardCount: len(cards),
		CreatedAt:      snapshot.ExportedAt,
	}, nil
}

// List returns the stored exports of the deck, newest first.
func (s *ExportService) List(ctx context.Context, userID, deckID int) ([]types.ExportSummary, error) {
	if s.objects == nil {
		return nil, ErrStorageUnavailable
	}
	if _, err := s.decks.Authorize(ctx, userID, deckID); err != nil {
		return nil, err
	}

	objects, err := s.objects.List(ctx, exportPrefix(userID, deckID))
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}

	exports := make([]types.ExportSummary, 0, len(objects))
	for _, obj := range objects {
		id := strings.TrimSuffix(path.Base(obj.Key), ".json")
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		exports = append(exports, types.ExportSummary{
			ID:        id,
			ObjectKey: obj.Key,
			Size:      obj.Size,
			UpdatedAt: obj.LastModified,
		})
	}
	sort.SliceStable(exports, func(i, j int) bool {
		return exports[i].UpdatedAt.After(exports[j].UpdatedAt)
	})
	return exports, nil
}

// Open returns a reader over a stored export. The caller closes it.
func (s *ExportService) Open(ctx context.Context, userID, deckID int, exportID string) (io.ReadCloser, error) {
	key, err := s.resolve(ctx, userID, deckID, exportID)
	if err != nil {
		return nil, err
	}
	body, err := s.objects.Get(ctx, key)
	if err != nil {
		return nil, mapObjectError(err)
	}
	return body, nil
}

func (s *ExportService) Delete(ctx context.Context, userID, deckID int, exportID string) error {
	key, err := s.resolve(ctx, userID, deckID, exportID)
	if err != nil {
		return err
	}
	return mapObjectError(s.objects.Delete(ctx, key))
}

func (s *ExportService) resolve(ctx context.Context, userID, deckID int, exportID string) (string, error) {
	if s.objects == nil {
		return "", ErrStorageUnavailable
	}
	id, err := uuid.Parse(exportID)
	if err != nil {
		return "", invalid("export_id", "must be a UUID")
	}
	if _, err := s.decks.Authorize(ctx, userID, deckID); err != nil {
		return "", err
	}
	return exportKey(userID, deckID, id.String()), nil
}

func exportPrefix(userID, deckID int) string {
	return fmt.Sprintf("exports/%d/%d/", userID, deckID)
}

func exportKey(userID, deckID int, exportID string) string {
	return exportPrefix(userID, deckID) + exportID + ".json"
}

func mapObjectError(err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("export: %w", store.ErrNotFound)
	}
	return err
}
