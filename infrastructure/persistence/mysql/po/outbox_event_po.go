package po

import (
	"crypto/rand"
	"encoding/json"
	"time"

	"checkout/domain/shared"

	"github.com/oklog/ulid/v2"
)

// OutboxEventPO transactional outbox row
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:26"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`
	Payload     string    `gorm:"type:json;not null"`
	Status      string    `gorm:"size:20;default:PENDING;not null;index:idx_outbox_status_created,priority:1"`
	RetryCount  int       `gorm:"default:0;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_outbox_status_created,priority:2"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// payloader is implemented by events with a body beyond the envelope.
type payloader interface {
	Payload() map[string]interface{}
}

// FromDomainEvent converts event into a PENDING outbox row.
// Ids are ULIDs so rows sort by creation time.
func FromDomainEvent(event shared.DomainEvent) (*OutboxEventPO, error) {
	payload, err := EncodeEvent(event)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return nil, err
	}

	return &OutboxEventPO{
		ID:          id.String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		Status:      string(EventStatusPending),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EncodeEvent renders the JSON envelope published to consumers.
func EncodeEvent(event shared.DomainEvent) (string, error) {
	envelope := map[string]interface{}{
		"event_name":   event.EventName(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_on":  event.OccurredOn().UTC().Format(time.RFC3339Nano),
	}
	if p, ok := event.(payloader); ok {
		envelope["data"] = p.Payload()
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
