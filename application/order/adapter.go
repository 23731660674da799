package order

import (
	"context"

	"checkout/domain/user"
)

// userCheckerAdapter adapts user.Repository to order.UserChecker.
type userCheckerAdapter struct {
	userRepo user.Repository
}

func (a *userCheckerAdapter) UserExists(ctx context.Context, userID int64) (bool, error) {
	return a.userRepo.Exists(ctx, userID)
}
