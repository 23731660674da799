package order

import (
	"context"
	"strconv"
)

// UserChecker resolves customers without importing the user package.
type UserChecker interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// DomainService holds rules that need more than one aggregate.
// It reads through repositories but never saves.
type DomainService struct {
	userChecker     UserChecker
	orderRepository Repository
}

func NewDomainService(userChecker UserChecker, orderRepo Repository) *DomainService {
	return &DomainService{
		userChecker:     userChecker,
		orderRepository: orderRepo,
	}
}

// EnsureCustomer fails with ErrInvalidUserOrder when userID does not resolve.
// A stale or fabricated user must never create a financial record.
func (s *DomainService) EnsureCustomer(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewInvalidUserOrderError(userID)
	}
	ok, err := s.userChecker.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return NewInvalidUserOrderError(userID)
	}
	return nil
}

// OwnedOrder loads an order visible to userID. Orders of other customers are
// reported as not found so their existence does not leak.
func (s *DomainService) OwnedOrder(ctx context.Context, orderID, userID int64) (*Order, error) {
	o, err := s.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, NewOrderNotFoundError(strconv.FormatInt(orderID, 10))
	}
	return o, nil
}
