package messaging

import (
	"context"
	"time"
)

// Broker publishes JSON-encodable messages to a named channel.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Message is the envelope written to the broker.
type Message struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

func NewMessage(eventType string, payload interface{}) Message {
	return Message{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
