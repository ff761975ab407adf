package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/whyteferrari/RECALLR/types"
)

// DeckRepository defines persistence operations for decks.
type DeckRepository interface {
	Get(ctx context.Context, id int) (types.Deck, error)
	ListByUser(ctx context.Context, userID int, archived bool) ([]types.Deck, error)
	ListSummaries(ctx context.Context, userID int) ([]types.DeckSummary, error)
	Folders(ctx context.Context, userID int) ([]types.Folder, error)
	Create(ctx context.Context, deck types.Deck) (types.Deck, error)
	Update(ctx context.Context, deck types.Deck) (types.Deck, error)
	SetArchived(ctx context.Context, id int, archived bool) error
	Delete(ctx context.Context, id int) error
}

// DeckAuthorizer resolves a deck on behalf of a user.
type DeckAuthorizer interface {
	Authorize(ctx context.Context, userID, deckID int) (types.Deck, error)
}

// DeckInput is the editable part of a deck.
type DeckInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Folder      string `json:"folder" validate:"max=255"`
	Color       string `json:"color" validate:"required,max=32"`
	Description string `json:"description"`
}

func (in DeckInput) normalize() DeckInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Folder = strings.TrimSpace(in.Folder)
	in.Color = strings.TrimSpace(in.Color)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// DeckService encapsulates deck and folder use-cases.
type DeckService struct {
	repo   DeckRepository
	events EventPublisher
}

// NewDeckService constructs a DeckService. events may be nil.
func NewDeckService(repo DeckRepository, events EventPublisher) *DeckService {
	return &DeckService{repo: repo, events: events}
}

// Authorize loads the deck and checks that userID owns it. A missing deck
// yields store.ErrNotFound and a foreign deck ErrForbidden.
func (s *DeckService) Authorize(ctx context.Context, userID, deckID int) (types.Deck, error) {
	deck, err := s.repo.Get(ctx, deckID)
	if err != nil {
		return types.Deck{}, err
	}
	if deck.UserID != userID {
		return types.Deck{}, ErrForbidden
	}
	return deck, nil
}

func (s *DeckService) Get(ctx context.Context, userID, deckID int) (types.Deck, error) {
	return s.Authorize(ctx, userID, deckID)
}

func (s *DeckService) ListActive(ctx context.Context, userID int) ([]types.Deck, error) {
	return s.repo.ListByUser(ctx, userID, false)
}

func (s *DeckService) ListArchived(ctx context.Context, userID int) ([]types.Deck, error) {
	return s.repo.ListByUser(ctx, userID, true)
}

func (s *DeckService) ListOngoing(ctx context.Context, userID int) ([]types.DeckSummary, error) {
	return s.repo.ListSummaries(ctx, userID)
}

func (s *DeckService) Folders(ctx context.Context, userID int) ([]types.Folder, error) {
	return s.repo.Folders(ctx, userID)
}

func (s *DeckService) Create(ctx context.Context, userID int, input DeckInput) (types.Deck, error) {
	input = input.normalize()
	if err := validateStruct(input, ""); err != nil {
		return types.Deck{}, err
	}

	deck, err := s.repo.Create(ctx, types.Deck{
		UserID:      userID,
		Name:        input.Name,
		Folder:      input.Folder,
		Color:       input.Color,
		Description: input.Description,
	})
	if err != nil {
		return types.Deck{}, fmt.Errorf("create deck: %w", err)
	}
	return deck, nil
}

func (s *DeckService) Update(ctx context.Context, userID, deckID int, input DeckInput) (types.Deck, error) {
	input = input.normalize()
	if err := validateStruct(input, ""); err != nil {
		return types.Deck{}, err
	}

	current, err := s.Authorize(ctx, userID, deckID)
	if err != nil {
		return types.Deck{}, err
	}

	current.Name = input.Name
	current.Folder = input.Folder
	current.Color = input.Color
	current.Description = input.Description
	return s.repo.Update(ctx, current)
}

func (s *DeckService) Archive(ctx context.Context, userID, deckID int) error {
	return s.setArchived(ctx, userID, deckID, true)
}

func (s *DeckService) Recover(ctx context.Context, userID, deckID int) error {
	return s.setArchived(ctx, userID, deckID, false)
}

func (s *DeckService) setArchived(ctx context.Context, userID, deckID int, archived bool) error {
	if _, err := s.Authorize(ctx, userID, deckID); err != nil {
		return err
	}
	if err := s.repo.SetArchived(ctx, deckID, archived); err != nil {
		return err
	}

	eventType := types.EventDeckRecovered
	if archived {
		eventType = types.EventDeckArchived
	}
	publishEvent(ctx, s.events, eventType, userID, deckID, nil)
	return nil
}

// Delete hard-deletes the deck together with its flashcards and tasks.
func (s *DeckService) Delete(ctx context.Context, userID, deckID int) error {
	deck, err := s.Authorize(ctx, userID, deckID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, deckID); err != nil {
		return err
	}
	publishEvent(ctx, s.events, types.EventDeckDeleted, userID, deckID, map[string]string{"name": deck.Name})
	return nil
}
