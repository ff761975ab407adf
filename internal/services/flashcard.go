package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/whyteferrari/RECALLR/internal/store"
	"github.com/whyteferrari/RECALLR/types"
)

// FlashcardRepository defines persistence operations for flashcards.
type FlashcardRepository interface {
	ListByDeck(ctx context.Context, deckID int) ([]types.Flashcard, error)
	ListByUser(ctx context.Context, userID int) ([]types.Flashcard, error)
	Create(ctx context.Context, card types.Flashcard) (types.Flashcard, error)
	WithTx(ctx context.Context, fn func(ctx context.Context, w store.FlashcardWriter) error) error
}

// FlashcardService encapsulates flashcard use-cases, including bulk
// reconciliation of a deck against a submitted list.
type FlashcardService struct {
	repo   FlashcardRepository
	decks  DeckAuthorizer
	events EventPublisher
}

// NewFlashcardService constructs a FlashcardService. events may be nil.
func NewFlashcardService(repo FlashcardRepository, decks DeckAuthorizer, events EventPublisher) *FlashcardService {
	return &FlashcardService{repo: repo, decks: decks, events: events}
}

func (s *FlashcardService) ListByDeck(ctx context.Context, userID, deckID int) ([]types.Flashcard, error) {
	if _, err := s.decks.Authorize(ctx, userID, deckID); err != nil {
		return nil, err
	}
	return s.repo.ListByDeck(ctx, deckID)
}

func (s *FlashcardService) ListByUser(ctx context.Context, userID int) ([]types.Flashcard, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *FlashcardService) Create(ctx context.Context, userID, deckID int, input types.FlashcardInput) (types.Flashcard, error) {
	input.ID = nil
	input = normalizeFlashcard(input)
	if err := validateStruct(input, ""); err != nil {
		return types.Flashcard{}, err
	}
	if _, err := s.decks.Authorize(ctx, userID, deckID); err != nil {
		return types.Flashcard{}, err
	}
	return s.repo.Create(ctx, types.Flashcard{DeckID: deckID, Term: input.Term, Definition: input.Definition})
}

// Reconcile makes the deck's flashcards match cards. Persisted flashcards
// missing from cards are deleted, cards with an ID overwrite the flashcard
// with that ID in this deck, and cards without an ID are inserted. All three
// steps share one transaction.
func (s *FlashcardService) Reconcile(ctx context.Context, userID, deckID int, cards []types.FlashcardInput) (types.ReconcileStats, error) {
	normalized := make([]types.FlashcardInput, len(cards))
	for i, card := range cards {
		card = normalizeFlashcard(card)
		if err := validateStruct(card, fmt.Sprintf("flashcards[%d]", i)); err != nil {
			return types.ReconcileStats{}, err
		}
		normalized[i] = card
	}

	if _, err := s.decks.Authorize(ctx, userID, deckID); err != nil {
		return types.ReconcileStats{}, err
	}

	var stats types.ReconcileStats
	err := s.repo.WithTx(ctx, func(ctx context.Context, w store.FlashcardWriter) error {
		persisted, err := w.ListIDsByDeck(ctx, deckID)
		if err != nil {
			return err
		}

		plan := planReconcile(persisted, normalized)

		if _, err := w.DeleteByIDs(ctx, deckID, plan.toDelete); err != nil {
			return err
		}
		for _, card := range plan.toUpdate {
			if _, err := w.UpdateContent(ctx, deckID, card); err != nil {
				return err
			}
		}
		if _, err := w.InsertMany(ctx, deckID, plan.toInsert); err != nil {
			return err
		}

		stats = plan.stats()
		return nil
	})
	if err != nil {
		return types.ReconcileStats{}, err
	}

	publishEvent(ctx, s.events, types.EventFlashcardsReconciled, userID, deckID, stats)
	return stats, nil
}

type reconcilePlan struct {
	toDelete []int
	toUpdate []types.Flashcard
	toInsert []types.Flashcard
}

// stats counts update attempts, not affected rows.
func (p reconcilePlan) stats() types.ReconcileStats {
	return types.ReconcileStats{
		Deleted:  len(p.toDelete),
		Updated:  len(p.toUpdate),
		Inserted: len(p.toInsert),
	}
}

// planReconcile partitions the submitted cards against the persisted ids.
// Submitted ids are not checked for existence; an id from another deck ends
// up in toUpdate and matches no row.
func planReconcile(persisted []int, submitted []types.FlashcardInput) reconcilePlan {
	kept := make(map[int]struct{}, len(submitted))
	var plan reconcilePlan
	for _, card := range submitted {
		if card.ID == nil {
			plan.toInsert = append(plan.toInsert, types.Flashcard{Term: card.Term, Definition: card.Definition})
			continue
		}
		kept[*card.ID] = struct{}{}
		plan.toUpdate = append(plan.toUpdate, types.Flashcard{ID: *card.ID, Term: card.Term, Definition: card.Definition})
	}
	for _, id := range persisted {
		if _, ok := kept[id]; !ok {
			plan.toDelete = append(plan.toDelete, id)
		}
	}
	return plan
}

func normalizeFlashcard(card types.FlashcardInput) types.FlashcardInput {
	card.Term = strings.TrimSpace(card.Term)
	card.Definition = strings.TrimSpace(card.Definition)
	return card
}
