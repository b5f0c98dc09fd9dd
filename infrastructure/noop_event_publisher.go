package infrastructure

import (
	"tokenrush/domain/events"
	"tokenrush/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// noopEventPublisher drops events. Used when no NATS URL is configured,
// keeping the rest of the system oblivious to the missing bus.
type noopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that discards all events
func NewNoopEventPublisher() interfaces.EventPublisher {
	return &noopEventPublisher{}
}

func (p *noopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event discarded (no publisher configured)")
	return nil
}
