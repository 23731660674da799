package shared

import (
	"context"
	"fmt"
	"time"
)

// DomainEvent is a fact recorded by an aggregate.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventPublisher delivers serialized events to the outside world.
// The outbox worker is the only caller; aggregates never publish directly.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload []byte) error
}

// ValidateEvent rejects events that cannot be stored in the outbox.
func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
