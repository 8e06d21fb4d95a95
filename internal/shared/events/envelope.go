package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

type Envelope struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Aggregate   string          `json:"aggregate"`
	AggregateID string          `json:"aggregate_id"`
	Actor       string          `json:"actor,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEnvelope stamps a fresh event id and encodes payload as JSON.
func NewEnvelope(eventType, aggregate, aggregateID string, at time.Time, payload any) (Envelope, error) {
	b, err := jsoniter.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		OccurredAt:  at.UTC(),
		Aggregate:   aggregate,
		AggregateID: aggregateID,
		Payload:     b,
	}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	return jsoniter.Unmarshal(e.Payload, v)
}
