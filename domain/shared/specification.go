package shared

import "context"

// Specification encapsulates a business predicate over T.
// In-memory repositories filter with IsSatisfiedBy; SQL repositories translate
// the concrete specification types into WHERE clauses.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, candidate T) bool
}

// AndSpecification is satisfied when both sides are.
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (s AndSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return s.Left.IsSatisfiedBy(ctx, candidate) && s.Right.IsSatisfiedBy(ctx, candidate)
}

// OrSpecification is satisfied when either side is.
type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

func (s OrSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return s.Left.IsSatisfiedBy(ctx, candidate) || s.Right.IsSatisfiedBy(ctx, candidate)
}

// NotSpecification negates the inner specification.
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (s NotSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return !s.Spec.IsSatisfiedBy(ctx, candidate)
}

func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}
