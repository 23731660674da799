package user

import (
	"context"

	"checkout/domain/shared"
)

// Repository customer lookups
type Repository interface {
	// FindByID returns ErrUserNotFound when the user does not exist.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByIDs returns the users that exist, keyed by id.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*User, error)

	// Exists is the nullable lookup used before creating an order.
	Exists(ctx context.Context, id int64) (bool, error)

	FindBySpecification(ctx context.Context, spec shared.Specification[*User]) ([]*User, error)
}

// AddressRepository saved addresses of a customer
type AddressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]Address, error)
}
