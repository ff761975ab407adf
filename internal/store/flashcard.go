package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/whyteferrari/RECALLR/types"
)

// FlashcardWriter is the set of flashcard operations a reconciliation runs
// inside one transaction.
type FlashcardWriter interface {
	ListIDsByDeck(ctx context.Context, deckID int) ([]int, error)
	DeleteByIDs(ctx context.Context, deckID int, ids []int) (int64, error)
	UpdateContent(ctx context.Context, deckID int, card types.Flashcard) (int64, error)
	InsertMany(ctx context.Context, deckID int, cards []types.Flashcard) ([]types.Flashcard, error)
}

// FlashcardRepository handles persistence for flashcards.
type FlashcardRepository struct {
	db     DBTX
	txBase TxBeginner
}

func NewFlashcardRepository(db DBTX, txBase TxBeginner) *FlashcardRepository {
	return &FlashcardRepository{db: db, txBase: txBase}
}

// WithTx runs fn against a FlashcardWriter bound to a single transaction.
func (r *FlashcardRepository) WithTx(ctx context.Context, fn func(ctx context.Context, w FlashcardWriter) error) error {
	if r.txBase == nil {
		return fmt.Errorf("flashcard repository has no transaction source")
	}
	return WithTx(ctx, r.txBase, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, &FlashcardRepository{db: tx})
	})
}

func (r *FlashcardRepository) ListByDeck(ctx context.Context, deckID int) ([]types.Flashcard, error) {
	const query = `
		SELECT flashcard_id, deck_id, term, definition
		FROM flashcards
		WHERE deck_id = $1
		ORDER BY flashcard_id`
	return r.list(ctx, query, deckID)
}

// ListByUser returns every flashcard across the decks owned by the user.
func (r *FlashcardRepository) ListByUser(ctx context.Context, userID int) ([]types.Flashcard, error) {
	const query = `
		SELECT f.flashcard_id, f.deck_id, f.term, f.definition
		FROM flashcards f
		JOIN decks d ON d.deck_id = f.deck_id
		WHERE d.user_id = $1
		ORDER BY f.deck_id, f.flashcard_id`
	return r.list(ctx, query, userID)
}

func (r *FlashcardRepository) Create(ctx context.Context, card types.Flashcard) (types.Flashcard, error) {
	const query = `
		INSERT INTO flashcards (deck_id, term, definition)
		VALUES ($1, $2, $3)
		RETURNING flashcard_id`
	if err := r.db.QueryRowContext(ctx, query, card.DeckID, card.Term, card.Definition).Scan(&card.ID); err != nil {
		return types.Flashcard{}, err
	}
	return card, nil
}

func (r *FlashcardRepository) ListIDsByDeck(ctx context.Context, deckID int) ([]int, error) {
	const query = `SELECT flashcard_id FROM flashcards WHERE deck_id = $1`
	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *FlashcardRepository) DeleteByIDs(ctx context.Context, deckID int, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	values := make([]int64, len(ids))
	for i, id := range ids {
		values[i] = int64(id)
	}

	const query = `DELETE FROM flashcards WHERE deck_id = $1 AND flashcard_id = ANY($2)`
	result, err := r.db.ExecContext(ctx, query, deckID, pq.Array(values))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// UpdateContent rewrites term and definition of a flashcard. A card that
// belongs to another deck is left untouched and reports zero rows.
func (r *FlashcardRepository) UpdateContent(ctx context.Context, deckID int, card types.Flashcard) (int64, error) {
	const query = `
		UPDATE flashcards
		SET term = $1,
			definition = $2
		WHERE flashcard_id = $3 AND deck_id = $4`
	result, err := r.db.ExecContext(ctx, query, card.Term, card.Definition, card.ID, deckID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// InsertMany creates all cards in the deck with one statement and returns
// them with their assigned identifiers.
func (r *FlashcardRepository) InsertMany(ctx context.Context, deckID int, cards []types.Flashcard) ([]types.Flashcard, error) {
	if len(cards) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO flashcards (deck_id, term, definition) VALUES `)
	args := make([]any, 0, 1+len(cards)*2)
	args = append(args, deckID)
	for i, card := range cards {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($1, $%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, card.Term, card.Definition)
	}
	sb.WriteString(` RETURNING flashcard_id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	created := make([]types.Flashcard, 0, len(cards))
	for i := 0; rows.Next(); i++ {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		card := types.Flashcard{ID: id, DeckID: deckID}
		if i < len(cards) {
			card.Term = cards[i].Term
			card.Definition = cards[i].Definition
		}
		created = append(created, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *FlashcardRepository) list(ctx context.Context, query string, arg int) ([]types.Flashcard, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]types.Flashcard, 0)
	for rows.Next() {
		var card types.Flashcard
		if err := rows.Scan(&card.ID, &card.DeckID, &card.Term, &card.Definition); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
