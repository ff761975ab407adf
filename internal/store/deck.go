package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/whyteferrari/RECALLR/types"
)

// DeckRepository handles persistence for decks and the folder aggregate.
type DeckRepository struct {
	db DBTX
}

func NewDeckRepository(db DBTX) *DeckRepository {
	return &DeckRepository{db: db}
}

func (r *DeckRepository) Get(ctx context.Context, id int) (types.Deck, error) {
	const query = `
		SELECT d.deck_id, d.user_id, d.name, d.folder, d.color, d.description, d.archived,
		       (SELECT COUNT(1) FROM flashcards f WHERE f.deck_id = d.deck_id),
		       d.created_at, d.updated_at
		FROM decks d
		WHERE d.deck_id = $1`
	var deck types.Deck
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.Folder,
		&deck.Color,
		&deck.Description,
		&deck.Archived,
		&deck.TermCount,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Deck{}, ErrNotFound
		}
		return types.Deck{}, err
	}
	return deck, nil
}

// ListByUser returns the user's decks with their flashcard counts, filtered
// by archived state.
func (r *DeckRepository) ListByUser(ctx context.Context, userID int, archived bool) ([]types.Deck, error) {
	const query = `
		SELECT d.deck_id, d.user_id, d.name, d.folder, d.color, d.description, d.archived,
		       COALESCE(f.term_count, 0), d.created_at, d.updated_at
		FROM decks d
		LEFT JOIN (
			SELECT deck_id, COUNT(1) AS term_count
			FROM flashcards
			GROUP BY deck_id
		) f ON f.deck_id = d.deck_id
		WHERE d.user_id = $1 AND d.archived = $2
		ORDER BY d.deck_id`
	rows, err := r.db.QueryContext(ctx, query, userID, archived)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := make([]types.Deck, 0)
	for rows.Next() {
		var deck types.Deck
		if err := rows.Scan(
			&deck.ID,
			&deck.UserID,
			&deck.Name,
			&deck.Folder,
			&deck.Color,
			&deck.Description,
			&deck.Archived,
			&deck.TermCount,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		); err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return decks, nil
}

// ListSummaries returns id and name of the user's active decks.
func (r *DeckRepository) ListSummaries(ctx context.Context, userID int) ([]types.DeckSummary, error) {
	const query = `
		SELECT deck_id, name
		FROM decks
		WHERE user_id = $1 AND archived = FALSE
		ORDER BY deck_id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]types.DeckSummary, 0)
	for rows.Next() {
		var summary types.DeckSummary
		if err := rows.Scan(&summary.ID, &summary.Name); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Folders aggregates the user's decks by folder label.
func (r *DeckRepository) Folders(ctx context.Context, userID int) ([]types.Folder, error) {
	const query = `
		SELECT folder, COUNT(1)
		FROM decks
		WHERE user_id = $1
		GROUP BY folder
		ORDER BY folder`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := make([]types.Folder, 0)
	for rows.Next() {
		var folder types.Folder
		if err := rows.Scan(&folder.Name, &folder.DeckCount); err != nil {
			return nil, err
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *DeckRepository) Create(ctx context.Context, deck types.Deck) (types.Deck, error) {
	now := time.Now()
	deck.CreatedAt = now
	deck.UpdatedAt = now

	const query = `
		INSERT INTO decks (user_id, name, folder, color, description, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7)
		RETURNING deck_id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		deck.UserID,
		deck.Name,
		deck.Folder,
		deck.Color,
		deck.Description,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID); err != nil {
		return types.Deck{}, err
	}
	deck.Archived = false
	return deck, nil
}

// Update rewrites the editable deck fields. Only the owner's row matches.
func (r *DeckRepository) Update(ctx context.Context, deck types.Deck) (types.Deck, error) {
	deck.UpdatedAt = time.Now()

	const query = `
		UPDATE decks
		SET name = $1,
			folder = $2,
			color = $3,
			description = $4,
			updated_at = $5
		WHERE deck_id = $6 AND user_id = $7`
	result, err := r.db.ExecContext(
		ctx,
		query,
		deck.Name,
		deck.Folder,
		deck.Color,
		deck.Description,
		deck.UpdatedAt,
		deck.ID,
		deck.UserID,
	)
	if err != nil {
		return types.Deck{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Deck{}, err
	}
	if affected == 0 {
		return types.Deck{}, ErrNotFound
	}
	return deck, nil
}

func (r *DeckRepository) SetArchived(ctx context.Context, id int, archived bool) error {
	const query = `UPDATE decks SET archived = $1, updated_at = $2 WHERE deck_id = $3`
	result, err := r.db.ExecContext(ctx, query, archived, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the deck. Its flashcards and tasks go with it through
// ON DELETE CASCADE.
func (r *DeckRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM decks WHERE deck_id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
