package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/whyteferrari/RECALLR/types"
)

const (
	attrEventType = "event_type"
	attrDeckID    = "deck_id"
)

// Publisher is the part of MQ that EventPublisher needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// EventPublisher writes domain events as JSON to a single channel.
type EventPublisher struct {
	publisher Publisher
	channel   string
}

func NewEventPublisher(publisher Publisher, channel string) *EventPublisher {
	return &EventPublisher{publisher: publisher, channel: channel}
}

func (p *EventPublisher) Publish(ctx context.Context, event types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	attrs := map[string]string{
		attrEventType: string(event.Type),
		attrDeckID:    fmt.Sprint(event.DeckID),
	}
	if _, err := p.publisher.Publish(ctx, p.channel, data, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

// DecodeEvent parses a message produced by EventPublisher.
func DecodeEvent(msg Message) (types.Event, error) {
	var event types.Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		return types.Event{}, fmt.Errorf("decode event %s: %w", msg.ID, err)
	}
	return event, nil
}
