package mocks

import (
	"context"
	"sync"

	"checkout/domain/shared"
	"checkout/pkg/logger"

	"go.uber.org/zap"
)

// MockUnitOfWork runs fn without a transaction and records the events of
// registered aggregates where the MySQL version writes them to the outbox.
type MockUnitOfWork struct {
	aggregates []shared.AggregateRoot
	sink       *EventSink
}

func NewMockUnitOfWork(sink *EventSink) *MockUnitOfWork {
	if sink == nil {
		sink = &EventSink{}
	}
	return &MockUnitOfWork{sink: sink}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	u.aggregates = make([]shared.AggregateRoot, 0)

	if err := fn(ctx); err != nil {
		return err
	}

	for _, agg := range u.aggregates {
		for _, event := range agg.PullEvents() {
			if err := shared.ValidateEvent(event); err != nil {
				return err
			}
			u.sink.add(event)
			logger.FromContext(ctx).Debug("Mock outbox event saved",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
			)
		}
	}
	return nil
}

func (u *MockUnitOfWork) RegisterNew(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterDirty(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

func (u *MockUnitOfWork) RegisterRemoved(aggregate shared.AggregateRoot) {
	u.aggregates = append(u.aggregates, aggregate)
}

var _ shared.UnitOfWork = (*MockUnitOfWork)(nil)

// EventSink collects events committed by every MockUnitOfWork of a factory.
type EventSink struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (s *EventSink) add(e shared.DomainEvent) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *EventSink) Events() []shared.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.DomainEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Names returns the event names in commit order.
func (s *EventSink) Names() []string {
	events := s.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

type MockUnitOfWorkFactory struct {
	Sink *EventSink
}

func NewMockUnitOfWorkFactory() *MockUnitOfWorkFactory {
	return &MockUnitOfWorkFactory{Sink: &EventSink{}}
}

func (f *MockUnitOfWorkFactory) New() shared.UnitOfWork {
	return NewMockUnitOfWork(f.Sink)
}

var _ shared.UnitOfWorkFactory = (*MockUnitOfWorkFactory)(nil)
