package cart

import (
	"context"
	"testing"

	"checkout/domain/cart"
	"checkout/domain/shared"
	"checkout/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferCart(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockCartRepository()
	repo.Add(cart.Line{DeviceID: "dev-1", ProductID: 10, SizeID: 1, Quantity: 1, UnitPrice: shared.NewMoney(50000, "INR")})
	repo.Add(cart.Line{DeviceID: "dev-1", ProductID: 11, SizeID: 1, Quantity: 3, UnitPrice: shared.NewMoney(20000, "INR")})
	svc := NewApplicationService(repo, "INR")

	resp, err := svc.TransferCart(ctx, 7, TransferCartRequest{DeviceID: "  dev-1 "})
	require.NoError(t, err)
	assert.True(t, resp.Status)
	assert.True(t, resp.Transferred)

	lines, err := repo.ItemsByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	// Already claimed rows stay with the first user.
	resp, err = svc.TransferCart(ctx, 8, TransferCartRequest{DeviceID: "dev-1"})
	require.NoError(t, err)
	assert.False(t, resp.Transferred)
	lines, err = repo.ItemsByUser(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTransferCartRequiresDevice(t *testing.T) {
	svc := NewApplicationService(mocks.NewMockCartRepository(), "")

	_, err := svc.TransferCart(context.Background(), 7, TransferCartRequest{DeviceID: "   "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGetCartTotals(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockCartRepository()
	repo.Add(cart.Line{UserID: 3, ProductID: 1, ProductName: "Linen Kurta", SizeID: 2, SizeLabel: "S", Quantity: 2, UnitPrice: shared.NewMoney(50000, "INR")})
	repo.Add(cart.Line{UserID: 3, ProductID: 2, ProductName: "Silk Dupatta", SizeID: 2, SizeLabel: "S", Quantity: 1, UnitPrice: shared.NewMoney(120000, "INR")})
	repo.Add(cart.Line{UserID: 4, ProductID: 2, Quantity: 5, UnitPrice: shared.NewMoney(120000, "INR")})
	svc := NewApplicationService(repo, "INR")

	resp, err := svc.GetCart(ctx, 3)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(100000), resp.Items[0].Subtotal.Amount)
	assert.Equal(t, "Linen Kurta", resp.Items[0].ProductName)
	assert.Equal(t, int64(220000), resp.Total.Amount)
	assert.Equal(t, 2200.0, resp.Total.Major)

	empty, err := svc.GetCart(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, int64(0), empty.Total.Amount)
}
