package shared

// AggregateRoot is the entry point of an aggregate and its consistency boundary.
// All changes go through it, and it records the domain events produced by them.
type AggregateRoot interface {
	// AggregateID returns the identity used for outbox rows and event keys.
	AggregateID() string

	// Version returns the optimistic lock version loaded from storage.
	Version() int

	// PullEvents returns the recorded domain events and clears them.
	PullEvents() []DomainEvent
}

// Entity has an identity that outlives its attribute values.
type Entity interface {
	AggregateID() string
}

// ValueObject is compared by value, never by identity.
type ValueObject interface {
	Equals(other interface{}) bool
}
