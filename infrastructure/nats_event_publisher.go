package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// subjectPrefix namespaces every event subject, so consumers can subscribe
// to tokenrush.events.> for the full stream or a single suffix for one type
const subjectPrefix = "tokenrush.events."

// eventEnvelope is the wire format for published events
type eventEnvelope struct {
	ID        string          `json:"id"`
	Type      events.EventType `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   events.Event    `json:"payload"`
}

// natsEventPublisher publishes domain events to NATS as JSON envelopes
type natsEventPublisher struct {
	nc *nats.Conn
}

// NewNATSEventPublisher creates an event publisher over an established
// NATS connection
func NewNATSEventPublisher(nc *nats.Conn) interfaces.EventPublisher {
	return &natsEventPublisher{nc: nc}
}

// Publish sends the event on its type-derived subject
func (p *natsEventPublisher) Publish(event events.Event) error {
	envelope := eventEnvelope{
		ID:        uuid.NewString(),
		Type:      event.Type(),
		Timestamp: time.Now().UTC(),
		Payload:   event,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.Type(), err)
	}

	subject := subjectPrefix + string(event.Type())
	if err := p.nc.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}
	return nil
}
