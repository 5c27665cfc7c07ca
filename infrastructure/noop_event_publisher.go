package infrastructure

import (
	"gambler/wager-engine/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Used when NATS_SERVERS is empty and by offline commands.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
