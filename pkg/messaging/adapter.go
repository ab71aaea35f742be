package messaging

import (
	"context"
	"fmt"
)

// EventPublisher wraps a Broker with a fixed channel and the envelope format.
type EventPublisher struct {
	broker  Broker
	channel string
}

func NewEventPublisher(broker Broker, channel string) *EventPublisher {
	if broker == nil {
		broker = NoopBroker{}
	}
	if channel == "" {
		channel = "hospital.events"
	}
	return &EventPublisher{broker: broker, channel: channel}
}

func (p *EventPublisher) Channel() string {
	return p.channel
}

func (p *EventPublisher) PublishImportCompleted(ctx context.Context, evt ImportCompleted) error {
	msg := Message{Type: EventImportCompleted, Payload: evt}
	if err := p.broker.Publish(ctx, p.channel, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", EventImportCompleted, err)
	}
	return nil
}

func (p *EventPublisher) Close() error {
	return p.broker.Close()
}
