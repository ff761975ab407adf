package types

// Flashcard is a single term/definition pair that belongs to a deck.
type Flashcard struct {
	// ID is the unique identifier of the flashcard.
	ID int `json:"id" db:"flashcard_id"`

	// DeckID identifies the deck the flashcard belongs to.
	DeckID int `json:"deck_id" db:"deck_id"`

	// Term is the prompt side of the card.
	Term string `json:"term" db:"term"`

	// Definition is the answer side of the card.
	Definition string `json:"definition" db:"definition"`
}

// FlashcardInput is one record of a client-submitted target list.
// A nil ID denotes a flashcard that does not exist yet.
type FlashcardInput struct {
	ID         *int   `json:"id" validate:"omitempty,gte=1"`
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}

// ReconcileStats reports what a reconciliation did to a deck.
type ReconcileStats struct {
	// Deleted is the number of persisted flashcards removed because they
	// were absent from the submitted list.
	Deleted int `json:"deleted"`

	// Updated is the number of submitted records that carried an ID.
	// It counts update attempts, not affected rows: an ID that no longer
	// exists or belongs to another deck still counts.
	Updated int `json:"updated"`

	// Inserted is the number of submitted records without an ID that were
	// created as new flashcards.
	Inserted int `json:"inserted"`
}
