package mocks

import (
	"context"
	"testing"
	"time"

	"checkout/domain/cart"
	"checkout/domain/order"
	"checkout/domain/shared"
	"checkout/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, userID int64, now time.Time) *order.Order {
	t.Helper()
	contact, err := order.NewContact("billing", "Ravi", "4 Park Street", "9876543210")
	require.NoError(t, err)
	o, err := order.NewOrder(order.PlaceParams{
		UserID:   userID,
		Billing:  contact,
		Shipping: contact,
		Lines:    []order.LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: shared.NewMoney(1000, "INR")}},
		Now:      now,
	})
	require.NoError(t, err)
	return o
}

func TestMockOrderRepositoryOptimisticLock(t *testing.T) {
	ctx := context.Background()
	repo := NewMockOrderRepository(nil)
	o := placeOrder(t, 1, time.Now())
	require.NoError(t, repo.Save(ctx, o))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	require.NoError(t, first.Cancel(time.Now()))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.MarkPlaced("pay_1", time.Now()))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, order.ErrConcurrentModification)
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestMockOrderRepositoryAdminSearchMatchesCustomer(t *testing.T) {
	ctx := context.Background()
	users := NewMockUserRepository()
	users.AddUser(user.ReconstructionDTO{ID: 1, Name: "Meera Nair", Phone: "9000000001", IsActive: true})
	users.AddUser(user.ReconstructionDTO{ID: 2, Name: "Karan", Phone: "9000000002", IsActive: true})
	repo := NewMockOrderRepository(users)

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, placeOrder(t, 1, base.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, repo.Save(ctx, placeOrder(t, 2, base)))

	found, total, err := repo.Search(ctx, order.SearchCriteria{Query: "meera", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, found, 2)
	assert.True(t, found[0].CreatedAt().After(found[1].CreatedAt()))

	found, total, err = repo.Search(ctx, order.SearchCriteria{UserID: 2, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(2), found[0].UserID())
}

func TestMockCartTransferFirstClaimWins(t *testing.T) {
	ctx := context.Background()
	repo := NewMockCartRepository()
	repo.Add(cart.Line{DeviceID: "dev-1", ProductID: 1, Quantity: 1, UnitPrice: shared.NewMoney(100, "INR")})

	moved, err := repo.TransferFromDevice(ctx, "dev-1", 5)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransferFromDevice(ctx, "dev-1", 6)
	require.NoError(t, err)
	assert.False(t, moved)

	lines, err := repo.ItemsByUser(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
