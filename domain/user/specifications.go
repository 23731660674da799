package user

import (
	"context"
	"strings"

	"checkout/domain/shared"
)

// NameContainsSpecification case-insensitive substring match on the name
type NameContainsSpecification struct {
	Fragment string
}

func (spec NameContainsSpecification) IsSatisfiedBy(ctx context.Context, u *User) bool {
	return strings.Contains(strings.ToLower(u.Name()), strings.ToLower(spec.Fragment))
}

// PhoneContainsSpecification substring match on the phone number
type PhoneContainsSpecification struct {
	Fragment string
}

func (spec PhoneContainsSpecification) IsSatisfiedBy(ctx context.Context, u *User) bool {
	return strings.Contains(u.Phone().Value(), spec.Fragment)
}

type ByStatusSpecification struct {
	Active bool
}

func (spec ByStatusSpecification) IsSatisfiedBy(ctx context.Context, u *User) bool {
	return u.IsActive() == spec.Active
}

// NewCustomerSearchSpecification matches a name or phone fragment, as the
// admin order search does.
func NewCustomerSearchSpecification(fragment string) shared.Specification[*User] {
	return shared.Or[*User](NameContainsSpecification{Fragment: fragment}, PhoneContainsSpecification{Fragment: fragment})
}

func NewByStatusSpecification(active bool) shared.Specification[*User] {
	return ByStatusSpecification{Active: active}
}
