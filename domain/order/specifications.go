package order

import (
	"context"
	"strings"
	"time"

	"checkout/domain/shared"
)

// ByUserIDSpecification orders of one customer
type ByUserIDSpecification struct {
	UserID int64
}

func (spec ByUserIDSpecification) IsSatisfiedBy(ctx context.Context, o *Order) bool {
	return o.UserID() == spec.UserID
}

// ByStatusSpecification orders in one status
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, o *Order) bool {
	return o.Status() == spec.Status
}

// OrderNoContainsSpecification substring match on the order number, like SQL LIKE %q%
type OrderNoContainsSpecification struct {
	Fragment string
}

func (spec OrderNoContainsSpecification) IsSatisfiedBy(ctx context.Context, o *Order) bool {
	return strings.Contains(o.OrderNo(), spec.Fragment)
}

// CreatedBetweenSpecification Start and End are optional; a zero bound is ignored.
type CreatedBetweenSpecification struct {
	Start time.Time
	End   time.Time
}

func (spec CreatedBetweenSpecification) IsSatisfiedBy(ctx context.Context, o *Order) bool {
	createdAt := o.CreatedAt()
	if !spec.Start.IsZero() && createdAt.Before(spec.Start) {
		return false
	}
	if !spec.End.IsZero() && createdAt.After(spec.End) {
		return false
	}
	return true
}

func NewByUserIDSpecification(userID int64) shared.Specification[*Order] {
	return ByUserIDSpecification{UserID: userID}
}

func NewByStatusSpecification(status Status) shared.Specification[*Order] {
	return ByStatusSpecification{Status: status}
}

func NewOrderNoContainsSpecification(fragment string) shared.Specification[*Order] {
	return OrderNoContainsSpecification{Fragment: fragment}
}

func NewCreatedBetweenSpecification(start, end time.Time) shared.Specification[*Order] {
	return CreatedBetweenSpecification{Start: start, End: end}
}
