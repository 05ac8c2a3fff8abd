package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced = "order.placed"
	envelopeVersion  = 1
)

// Envelope wraps every payload written to the bus.
type Envelope struct {
	Type       string          `json:"type"`
	Version    int             `json:"version"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType string, payload any, at time.Time) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: eventType, Version: envelopeVersion, OccurredAt: at.UTC(), Payload: raw}, nil
}

// Publisher sends domain events. key selects the partition so one order's events stay ordered.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
