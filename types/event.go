package types

import (
	"encoding/json"
	"time"
)

// EventType names a domain event published on the event bus.
type EventType string

// Published event types.
const (
	EventFlashcardsReconciled EventType = "flashcards.reconciled"
	EventDeckArchived         EventType = "deck.archived"
	EventDeckRecovered        EventType = "deck.recovered"
	EventDeckDeleted          EventType = "deck.deleted"
)

// Event is the envelope written to the event bus.
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	UserID     int             `json:"user_id"`
	DeckID     int             `json:"deck_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}
