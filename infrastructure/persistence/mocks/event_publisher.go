package mocks

import (
	"context"
	"sync"
)

// PublishedMessage is one call to MockEventPublisher.Publish.
type PublishedMessage struct {
	Key       string
	EventType string
	Payload   []byte
}

// MockEventPublisher records published messages; an error set with FailWith
// is returned by every call until cleared.
type MockEventPublisher struct {
	mu       sync.Mutex
	messages []PublishedMessage
	err      error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (p *MockEventPublisher) Publish(ctx context.Context, key, eventType string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, PublishedMessage{Key: key, EventType: eventType, Payload: payload})
	return nil
}

func (p *MockEventPublisher) FailWith(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func (p *MockEventPublisher) Messages() []PublishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}
