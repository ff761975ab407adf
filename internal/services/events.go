package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/whyteferrari/RECALLR/types"
)

// EventPublisher delivers domain events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event types.Event) error
}

// publishEvent sends an event if a publisher is configured. Failures are
// logged and never returned to the caller.
func publishEvent(ctx context.Context, events EventPublisher, eventType types.EventType, userID, deckID int, payload any) {
	if events == nil {
		return
	}

	event := types.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		DeckID:     deckID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			slog.WarnContext(ctx, "failed to encode event payload", "type", eventType, "error", err)
			return
		}
		event.Payload = data
	}

	if err := events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			"type", eventType,
			"event_id", event.ID,
			"deck_id", deckID,
			"error", err,
		)
	}
}
