// Package kafka publishes outbox events to a Kafka topic.
package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"checkout/domain/shared"

	"github.com/segmentio/kafka-go"
)

const headerEventType = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher keys messages by aggregate id so every event of one order lands
// on the same partition in commit order.
type Publisher struct {
	writer messageWriter
	topic  string
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	cleaned := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka: topic is required")
	}

	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cleaned...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, key, eventType string, payload []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(eventType)},
		},
	})
}

func (p *Publisher) Topic() string { return p.topic }

func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ shared.EventPublisher = (*Publisher)(nil)
