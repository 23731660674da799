package order

import (
	"context"
	"testing"
	"time"

	"checkout/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func inr(paise int64) shared.Money { return shared.NewMoney(paise, "INR") }

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	contact, err := NewContact("billing", "Asha Rao", "12 MG Road", "9876543210")
	require.NoError(t, err)
	o, err := NewOrder(PlaceParams{
		UserID:   1,
		Billing:  contact,
		Shipping: contact,
		Lines: []LineRequest{
			{ProductID: 1, SizeID: 1, Quantity: 2, UnitPrice: inr(50000)},
			{ProductID: 2, SizeID: 1, Quantity: 1, UnitPrice: inr(120000)},
		},
		Currency: "INR",
		Now:      placedAt,
	})
	require.NoError(t, err)
	return o
}

func TestNewOrderComputesTotalOnce(t *testing.T) {
	o := newTestOrder(t)

	assert.Equal(t, int64(220000), o.Total().Amount())
	assert.Equal(t, "INR", o.Total().Currency())
	assert.Equal(t, StatusFailed, o.Status())
	assert.True(t, o.IsNew())
	assert.Zero(t, o.ID())
	assert.Equal(t, "2403091405", o.OrderNo())
	assert.Len(t, o.Items(), 2)
	assert.Empty(t, o.PullEvents(), "no event before an identity exists")
}

func TestNewOrderValidation(t *testing.T) {
	contact := RebuildContact("Asha", "12 MG Road", "9876543210")

	_, err := NewOrder(PlaceParams{UserID: 1, Billing: contact, Shipping: contact})
	assert.ErrorIs(t, err, ErrEmptyOrderItems)

	_, err = NewOrder(PlaceParams{UserID: 0, Lines: []LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: inr(100)}}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewOrder(PlaceParams{UserID: 1, Lines: []LineRequest{{ProductID: 1, Quantity: 0, UnitPrice: inr(100)}}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder(PlaceParams{UserID: 1, Lines: []LineRequest{
		{ProductID: 1, Quantity: 1, UnitPrice: inr(100)},
		{ProductID: 2, Quantity: 1, UnitPrice: shared.NewMoney(100, "USD")},
	}})
	assert.ErrorIs(t, err, shared.ErrCurrencyMismatch)

	_, err = NewOrder(PlaceParams{UserID: 1, Lines: []LineRequest{{ProductID: 1, Quantity: 1, UnitPrice: inr(0)}}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestAssignIdentity(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.AssignIdentity(42))
	assert.Equal(t, int64(42), o.ID())
	assert.Equal(t, "240309140542", o.OrderNo())

	events := o.PullEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "42", created.GetAggregateID())
	assert.Equal(t, int64(220000), created.Payload()["total"])

	assert.ErrorIs(t, o.AssignIdentity(43), ErrIdentityAlreadyAssigned)
	assert.Error(t, newTestOrder(t).AssignIdentity(0))
}

func TestRebuildKeepsSeries(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AssignIdentity(7))

	rebuilt := RebuildFromDTO(ReconstructionDTO{ID: 7, OrderNo: o.OrderNo(), Status: StatusPlaced, Version: 3})
	assert.Equal(t, "2403091405", rebuilt.Series())
	assert.Equal(t, 3, rebuilt.Version())
	assert.False(t, rebuilt.IsNew())
	assert.Empty(t, rebuilt.PullEvents())
}

func TestPaymentLifecycle(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AssignIdentity(1))
	o.PullEvents()

	require.NoError(t, o.AttachGatewayOrder("order_Nx1"))
	assert.NoError(t, o.AttachGatewayOrder("order_Nx1"), "same handle is accepted again")
	assert.ErrorIs(t, o.AttachGatewayOrder("order_Other"), ErrGatewayHandleConflict)

	assert.ErrorIs(t, o.MarkPlaced("  ", placedAt), shared.ErrInvalidInput)

	later := placedAt.Add(time.Minute)
	require.NoError(t, o.MarkPlaced("pay_1", later))
	assert.Equal(t, StatusPlaced, o.Status())
	assert.Equal(t, "pay_1", o.PaymentID())
	assert.Equal(t, later, o.LastUpdate())
	assert.Nil(t, o.CompletedTime())

	err := o.MarkPlaced("pay_2", later)
	assert.ErrorIs(t, err, ErrInvalidOrderState)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, "pay_1", o.PaymentID())

	assert.ErrorIs(t, o.AttachGatewayOrder("order_Nx1"), ErrInvalidOrderState)

	delivered := later.Add(24 * time.Hour)
	require.NoError(t, o.Deliver(delivered))
	require.NotNil(t, o.CompletedTime())
	assert.Equal(t, delivered, *o.CompletedTime())

	names := []string{}
	for _, e := range o.PullEvents() {
		names = append(names, e.EventName())
	}
	assert.Equal(t, []string{EventOrderPlaced, EventOrderDelivered}, names)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		t.Run(terminal.String(), func(t *testing.T) {
			o := RebuildFromDTO(ReconstructionDTO{ID: 1, OrderNo: "24030914051", Status: terminal})
			for _, target := range []Status{StatusFailed, StatusPlaced, StatusDelivered, StatusCancelled} {
				assert.False(t, terminal.CanTransitionTo(target))
			}
			assert.ErrorIs(t, o.ChangeStatus(StatusCancelled, placedAt), ErrInvalidOrderState)
			assert.ErrorIs(t, o.ChangeStatus(StatusDelivered, placedAt), ErrInvalidOrderState)
			assert.ErrorIs(t, o.MarkPlaced("pay_1", placedAt), ErrInvalidOrderState)
			assert.Equal(t, terminal, o.Status())
			assert.Empty(t, o.PullEvents())
		})
	}
}

func TestChangeStatus(t *testing.T) {
	failed := RebuildFromDTO(ReconstructionDTO{ID: 1, Status: StatusFailed})
	assert.ErrorIs(t, failed.ChangeStatus(StatusDelivered, placedAt), ErrInvalidOrderState)
	assert.ErrorIs(t, failed.ChangeStatus(StatusPlaced, placedAt), ErrInvalidTargetStatus)

	require.NoError(t, failed.ChangeStatus(StatusCancelled, placedAt))
	events := failed.PullEvents()
	require.Len(t, events, 1)
	cancelled := events[0].(*OrderCancelledEvent)
	assert.Equal(t, StatusFailed, cancelled.PreviousStatus())
	assert.Equal(t, "FAILED", cancelled.Payload()["previous_status"])
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" delivered ")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)

	_, err = ParseStatus("SHIPPED")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	assert.True(t, IsAdminTarget(StatusCancelled))
	assert.False(t, IsAdminTarget(StatusPlaced))
	assert.False(t, IsAdminTarget(StatusFailed))
}

func TestOrderNumbers(t *testing.T) {
	series := NewSeries(time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, "2312312359", series)
	assert.Equal(t, "2312312359100", FormatOrderNo(series, 100))
	assert.NotEqual(t, FormatOrderNo(series, 1), FormatOrderNo(series, 2))
}

type stubUsers map[int64]bool

func (s stubUsers) UserExists(ctx context.Context, userID int64) (bool, error) {
	return s[userID], nil
}

type stubOrders struct {
	Repository
	orders map[int64]*Order
}

func (s stubOrders) FindByID(ctx context.Context, id int64) (*Order, error) {
	if o, ok := s.orders[id]; ok {
		return o, nil
	}
	return nil, NewOrderNotFoundError("missing")
}

func TestDomainService(t *testing.T) {
	ctx := context.Background()
	o := RebuildFromDTO(ReconstructionDTO{ID: 5, UserID: 1, Status: StatusFailed})
	svc := NewDomainService(stubUsers{1: true}, stubOrders{orders: map[int64]*Order{5: o}})

	assert.NoError(t, svc.EnsureCustomer(ctx, 1))
	assert.ErrorIs(t, svc.EnsureCustomer(ctx, 2), ErrInvalidUserOrder)
	assert.ErrorIs(t, svc.EnsureCustomer(ctx, 0), ErrInvalidUserOrder)

	owned, err := svc.OwnedOrder(ctx, 5, 1)
	require.NoError(t, err)
	assert.Same(t, o, owned)

	_, err = svc.OwnedOrder(ctx, 5, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
