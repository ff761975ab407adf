package types

import "time"

// Deck represents a named, user-owned collection of flashcards.
type Deck struct {
	// ID is the unique identifier of the deck.
	ID int `json:"id" db:"deck_id"`

	// UserID identifies the user that owns the deck.
	UserID int `json:"user_id" db:"user_id"`

	// Name is the human-readable name of the deck.
	Name string `json:"name" db:"name"`

	// Folder is a free-text label used to group decks. An empty folder
	// means the deck is not filed anywhere.
	Folder string `json:"folder" db:"folder"`

	// Color is the display color of the deck, typically a hex code.
	Color string `json:"color" db:"color"`

	// Description is an optional longer text describing the deck.
	Description string `json:"description" db:"description"`

	// Archived marks the deck as soft-deleted. Archived decks are hidden
	// from the active listing and can be recovered.
	Archived bool `json:"archived" db:"archived"`

	// TermCount is the number of flashcards in the deck. It is only
	// populated by listing queries.
	TermCount int `json:"term_count" db:"term_count"`

	// CreatedAt is the timestamp at which the deck was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the deck.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DeckSummary is the compact deck view used by pickers.
type DeckSummary struct {
	ID   int    `json:"id" db:"deck_id"`
	Name string `json:"name" db:"name"`
}

// Folder is an aggregate over a user's decks sharing the same folder label.
type Folder struct {
	// Name is the folder label. Decks without a folder aggregate under "".
	Name string `json:"name" db:"name"`

	// DeckCount is the number of decks carrying this label.
	DeckCount int `json:"deck_count" db:"deck_count"`
}

// ExportSummary describes a stored deck export found by listing the bucket.
type ExportSummary struct {
	// ID is the export identifier.
	ID string `json:"id"`

	// ObjectKey is the path of the export inside the bucket.
	ObjectKey string `json:"object_key"`

	// Size is the size of the stored snapshot in bytes.
	Size int64 `json:"size"`

	// UpdatedAt is the last modification time reported by the bucket.
	UpdatedAt time.Time `json:"updated_at"`
}

// DeckExport describes a deck snapshot written to object storage.
type DeckExport struct {
	// ID is the export identifier, unique per deck.
	ID string `json:"id"`

	// DeckID identifies the exported deck.
	DeckID int `json:"deck_id"`

	// Bucket is the object storage bucket that holds the export.
	Bucket string `json:"bucket"`

	// ObjectKey is the path of the export inside the bucket.
	ObjectKey string `json:"object_key"`

	// FlashcardCount is the number of flashcards in the snapshot.
	FlashcardCount int `json:"flashcard_count"`

	// CreatedAt is the timestamp at which the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
}
