package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"checkout/domain/cart"
	"checkout/domain/order"
	"checkout/domain/payment"
	"checkout/domain/shared"
	"checkout/domain/user"
	paymentinfra "checkout/infrastructure/payment"
	"checkout/infrastructure/payment/noncestore"
	"checkout/infrastructure/payment/razorpay"
	"checkout/infrastructure/persistence/mocks"
	"checkout/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const gatewaySecret = "rzp_test_secret"

// fakeGateway checks Razorpay signatures over (order creation id, payment id)
// and nothing else, so order binding is left to the service.
type fakeGateway struct {
	mu        sync.Mutex
	created   []payment.CreateRequest
	createErr error
	verified  int
}

func (g *fakeGateway) Name() string { return "fake" }

func (g *fakeGateway) CreateOrder(ctx context.Context, req payment.CreateRequest) (*payment.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	return &payment.GatewayOrder{
		ID:       "order_" + req.Receipt,
		Amount:   req.Amount.Amount(),
		Currency: req.Amount.Currency(),
		Receipt:  req.Receipt,
		Status:   "created",
		Provider: "fake",
	}, nil
}

func (g *fakeGateway) VerifyOrder(ctx context.Context, v payment.Verification) (bool, error) {
	g.mu.Lock()
	g.verified++
	g.mu.Unlock()
	return v.Signature == razorpay.Sign(v.OrderCreationID, v.PaymentID, gatewaySecret), nil
}

type fixture struct {
	svc      *ApplicationService
	orders   *mocks.MockOrderRepository
	carts    *mocks.MockCartRepository
	users    *mocks.MockUserRepository
	settings *mocks.MockSettingsRepository
	uow      *mocks.MockUnitOfWorkFactory
	gateway  *fakeGateway
	now      time.Time
}

// Saturday 9 March 2024, 14:05.
var checkoutTime = time.Date(2024, 3, 9, 14, 5, 31, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    mocks.NewMockUserRepository(),
		carts:    mocks.NewMockCartRepository(),
		settings: mocks.NewMockSettingsRepository(),
		uow:      mocks.NewMockUnitOfWorkFactory(),
		gateway:  &fakeGateway{},
		now:      checkoutTime,
	}
	f.orders = mocks.NewMockOrderRepository(f.users)
	f.users.AddUser(user.ReconstructionDTO{ID: 1, Name: "Asha Rao", Phone: "9876543210", Email: "asha@example.com", IsActive: true})
	f.users.AddUser(user.ReconstructionDTO{ID: 2, Name: "Vikram Shah", Phone: "9123456780", IsActive: true})

	f.svc = NewApplicationService(Dependencies{
		Orders:     f.orders,
		Queries:    f.orders,
		Carts:      f.carts,
		Users:      f.users,
		Addresses:  f.users,
		Settings:   f.settings,
		Gateway:    paymentinfra.NewSingleUse(f.gateway, noncestore.NewMemoryStore(), 0),
		UoWFactory: f.uow,
		PerPage:    2,
		Clock:      func() time.Time { return f.now },
	})
	return f
}

// fillCart adds 2 x 500.00 (50.00 off each) and 1 x 1200.00 to userID's cart.
func (f *fixture) fillCart(userID int64) {
	f.carts.Add(cart.Line{
		UserID: userID, ProductID: 10, SizeID: 1, Quantity: 2,
		UnitPrice: shared.NewMoney(50000, "INR"), UnitDiscount: shared.NewMoney(5000, "INR"),
	})
	f.carts.Add(cart.Line{UserID: userID, ProductID: 11, SizeID: 2, Quantity: 1, UnitPrice: shared.NewMoney(120000, "INR")})
}

func checkoutForm() CreateOrderRequest {
	return CreateOrderRequest{
		BillingName:        "Asha Rao",
		BillingAddress:     "12 MG Road, Bengaluru",
		BillingMobile:      "9876543210",
		ShippingName:       " Asha Rao ",
		ShippingAddress:    "12 MG Road, Bengaluru",
		ShippingMobile:     "9876543210",
		AdditionalComments: "<b>Leave at the door</b>",
	}
}

func (f *fixture) checkout(t *testing.T, userID int64) *CreateOrderResponse {
	t.Helper()
	f.fillCart(userID)
	resp, err := f.svc.CreateOrder(context.Background(), userID, checkoutForm())
	require.NoError(t, err)
	return resp
}

func confirmation(resp *CreateOrderResponse, paymentID string) ConfirmPaymentRequest {
	return ConfirmPaymentRequest{
		ID:              resp.ID,
		OrderCreationID: resp.GatewayResponse.ID,
		PaymentID:       paymentID,
		GatewayOrderID:  resp.GatewayResponse.ID,
		Signature:       razorpay.Sign(resp.GatewayResponse.ID, paymentID, gatewaySecret),
	}
}

func (f *fixture) stored(t *testing.T, id int64) *order.Order {
	t.Helper()
	o, err := f.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (f *fixture) orderCount(t *testing.T) int64 {
	t.Helper()
	n, err := f.orders.CountCreatedSince(context.Background(), time.Time{})
	require.NoError(t, err)
	return n
}

func TestCreateOrderSnapshotsCart(t *testing.T) {
	f := newFixture(t)

	resp := f.checkout(t, 1)

	assert.True(t, resp.Status)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "24030914051", resp.OrderNo)
	require.NotNil(t, resp.GatewayResponse)
	assert.Equal(t, int64(220000), resp.GatewayResponse.Amount)
	assert.Equal(t, "INR", resp.GatewayResponse.Currency)

	require.Len(t, f.gateway.created, 1)
	sent := f.gateway.created[0]
	assert.Equal(t, resp.OrderNo, sent.Receipt)
	assert.Equal(t, "1", sent.Notes["orderId"])
	assert.Equal(t, resp.OrderNo, sent.Notes["orderNumber"])
	assert.Equal(t, "1", sent.Notes["userId"])

	o := f.stored(t, resp.ID)
	assert.Equal(t, order.StatusFailed, o.Status())
	assert.Equal(t, int64(220000), o.Total().Amount())
	assert.Equal(t, resp.GatewayResponse.ID, o.GatewayOrderID())
	assert.Equal(t, "Asha Rao", o.Shipping().Name())
	assert.Equal(t, "Leave at the door", o.AdditionalComments())
	require.Len(t, o.Items(), 2)
	assert.Equal(t, int64(50000), o.Items()[0].UnitPrice().Amount())
	assert.Equal(t, int64(5000), o.Items()[0].UnitDiscount().Amount())
	assert.Equal(t, 2, o.Items()[0].Quantity())
	assert.Equal(t, int64(120000), o.Items()[1].UnitPrice().Amount())
	assert.Zero(t, o.Items()[1].UnitDiscount().Amount())
	assert.Equal(t, "INR", o.Items()[1].UnitDiscount().Currency())

	assert.Equal(t, []string{order.EventOrderCreated}, f.uow.Sink.Names())

	lines, err := f.carts.ItemsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "cart is kept until payment is confirmed")
}

func TestCreateOrderRejections(t *testing.T) {
	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateOrder(context.Background(), 1, checkoutForm())
		assert.ErrorIs(t, err, order.ErrEmptyOrderItems)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Zero(t, f.orderCount(t))
		assert.Empty(t, f.gateway.created)
	})

	t.Run("checkout disabled", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(1)
		f.settings.SetAllowCheckout(false)
		_, err := f.svc.CreateOrder(context.Background(), 1, checkoutForm())
		assert.ErrorIs(t, err, order.ErrCheckoutDisabled)
		assert.Zero(t, f.orderCount(t))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(99)
		_, err := f.svc.CreateOrder(context.Background(), 99, checkoutForm())
		assert.ErrorIs(t, err, order.ErrInvalidUserOrder)
		assert.Zero(t, f.orderCount(t))
		assert.Empty(t, f.gateway.created)
	})

	t.Run("blank shipping mobile", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(1)
		form := checkoutForm()
		form.ShippingMobile = "  "
		_, err := f.svc.CreateOrder(context.Background(), 1, form)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Zero(t, f.orderCount(t))
	})
}

func TestCreateOrderGatewayFailureLeavesFailedOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(1)
	f.gateway.createErr = payment.NewGatewayError("fake", "create order", 503, errors.New("unavailable"))

	_, err := f.svc.CreateOrder(context.Background(), 1, checkoutForm())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUpstream)

	require.Equal(t, int64(1), f.orderCount(t))
	o := f.stored(t, 1)
	assert.Equal(t, order.StatusFailed, o.Status())
	assert.Empty(t, o.GatewayOrderID())
}

func TestCreateOrderSameMinuteGetsDistinctNumbers(t *testing.T) {
	f := newFixture(t)

	first := f.checkout(t, 1)
	f.now = f.now.Add(20 * time.Second)
	second := f.checkout(t, 2)

	assert.NotEqual(t, first.OrderNo, second.OrderNo)
	assert.Equal(t, "24030914051", first.OrderNo)
	assert.Equal(t, "24030914052", second.OrderNo)
}

func TestConfirmPaymentPlacesOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	resp := f.checkout(t, 1)

	result, err := f.svc.ConfirmPayment(context.Background(), 1, confirmation(resp, "pay_001"))
	require.NoError(t, err)
	assert.True(t, result.Status)

	o := f.stored(t, resp.ID)
	assert.Equal(t, order.StatusPlaced, o.Status())
	assert.Equal(t, "pay_001", o.PaymentID())

	lines, err := f.carts.ItemsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.Equal(t, []string{order.EventOrderCreated, order.EventOrderPlaced}, f.uow.Sink.Names())
}

func TestConfirmPaymentRejections(t *testing.T) {
	t.Run("another customer's order", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)

		_, err := f.svc.ConfirmPayment(context.Background(), 2, confirmation(resp, "pay_001"))
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
		assert.Equal(t, order.StatusFailed, f.stored(t, resp.ID).Status())
		assert.Zero(t, f.gateway.verified)
	})

	t.Run("bad signature", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		req := confirmation(resp, "pay_001")
		req.Signature = "forged"

		_, err := f.svc.ConfirmPayment(context.Background(), 1, req)
		assert.ErrorIs(t, err, order.ErrPaymentNotVerified)
		assert.Equal(t, order.StatusFailed, f.stored(t, resp.ID).Status())
	})

	t.Run("gateway order of another order", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		req := confirmation(resp, "pay_001")
		req.GatewayOrderID = "order_someone_else"

		_, err := f.svc.ConfirmPayment(context.Background(), 1, req)
		assert.ErrorIs(t, err, order.ErrGatewayOrderMismatch)
		assert.Zero(t, f.gateway.verified)
	})

	t.Run("already placed", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		_, err := f.svc.ConfirmPayment(context.Background(), 1, confirmation(resp, "pay_001"))
		require.NoError(t, err)

		_, err = f.svc.ConfirmPayment(context.Background(), 1, confirmation(resp, "pay_001"))
		assert.ErrorIs(t, err, order.ErrInvalidOrderState)
		assert.Equal(t, 1, f.gateway.verified)
	})

	t.Run("payment signed for a cheaper gateway order", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		req := confirmation(resp, "pay_001")
		req.OrderCreationID = "order_cheap"
		req.Signature = razorpay.Sign("order_cheap", "pay_001", gatewaySecret)

		_, err := f.svc.ConfirmPayment(context.Background(), 1, req)
		assert.ErrorIs(t, err, order.ErrGatewayOrderMismatch)
		assert.Equal(t, order.StatusFailed, f.stored(t, resp.ID).Status())
		assert.Zero(t, f.gateway.verified)
	})

	t.Run("signature reused on a second order", func(t *testing.T) {
		f := newFixture(t)
		first := f.checkout(t, 1)
		_, err := f.svc.ConfirmPayment(context.Background(), 1, confirmation(first, "pay_001"))
		require.NoError(t, err)

		second := f.checkout(t, 1)
		req := confirmation(first, "pay_001")
		req.ID = second.ID

		_, err = f.svc.ConfirmPayment(context.Background(), 1, req)
		assert.ErrorIs(t, err, order.ErrGatewayOrderMismatch)
		assert.Equal(t, order.StatusFailed, f.stored(t, second.ID).Status())
		assert.Equal(t, 1, f.gateway.verified)
	})

	t.Run("gateway handle never recorded", func(t *testing.T) {
		f := newFixture(t)
		f.fillCart(1)
		f.gateway.createErr = payment.NewGatewayError("fake", "create order", 503, errors.New("unavailable"))
		_, err := f.svc.CreateOrder(context.Background(), 1, checkoutForm())
		require.Error(t, err)
		require.Empty(t, f.stored(t, 1).GatewayOrderID())

		req := ConfirmPaymentRequest{
			ID:              1,
			OrderCreationID: "order_any",
			PaymentID:       "pay_001",
			GatewayOrderID:  "order_any",
			Signature:       razorpay.Sign("order_any", "pay_001", gatewaySecret),
		}
		_, err = f.svc.ConfirmPayment(context.Background(), 1, req)
		assert.ErrorIs(t, err, order.ErrGatewayOrderMismatch)
		assert.Equal(t, order.StatusFailed, f.stored(t, 1).Status())
		assert.Zero(t, f.gateway.verified)
	})
}

func TestConfirmPaymentLogsCartClearFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	f := newFixture(t)
	resp := f.checkout(t, 1)
	f.carts.FailDeleteWith(errors.New("lock wait timeout exceeded"))

	result, err := f.svc.ConfirmPayment(context.Background(), 1, confirmation(resp, "pay_001"))
	require.NoError(t, err)
	assert.True(t, result.Status)
	assert.Equal(t, order.StatusPlaced, f.stored(t, resp.ID).Status())

	entries := logs.FilterMessage("Failed to clear cart after payment confirmation").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, resp.ID, fields["order_id"])
	assert.Equal(t, int64(1), fields["user_id"])
}

func TestConfirmPaymentLogsUnplacedPayment(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	f := newFixture(t)
	resp := f.checkout(t, 1)
	f.orders.FailNextSaves(order.NewConcurrentModificationError("1"))

	_, err := f.svc.ConfirmPayment(context.Background(), 1, confirmation(resp, "pay_001"))
	assert.ErrorIs(t, err, order.ErrConcurrentModification)
	assert.Equal(t, order.StatusFailed, f.stored(t, resp.ID).Status())

	entries := logs.FilterMessage("Payment verified but order could not be placed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "pay_001", fields["payment_id"])
	assert.Equal(t, resp.GatewayResponse.ID, fields["gateway_order_id"])
	assert.Equal(t, resp.ID, fields["order_id"])

	lines, err := f.carts.ItemsByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "cart is kept when the order was not placed")
}

func TestChangeOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("deliver then cancel", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		_, err := f.svc.ConfirmPayment(ctx, 1, confirmation(resp, "pay_001"))
		require.NoError(t, err)

		f.now = f.now.Add(48 * time.Hour)
		_, err = f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: resp.ID, Status: "delivered"})
		require.NoError(t, err)

		o := f.stored(t, resp.ID)
		assert.Equal(t, order.StatusDelivered, o.Status())
		require.NotNil(t, o.CompletedTime())
		assert.True(t, o.CompletedTime().Equal(f.now))

		_, err = f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: resp.ID, Status: "CANCELLED"})
		assert.ErrorIs(t, err, order.ErrInvalidOrderState)
		assert.Equal(t, order.StatusDelivered, f.stored(t, resp.ID).Status())
	})

	t.Run("cancel unpaid then deliver", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)

		_, err := f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: resp.ID, Status: "CANCELLED"})
		require.NoError(t, err)
		_, err = f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: resp.ID, Status: "DELIVERED"})
		assert.ErrorIs(t, err, order.ErrInvalidOrderState)
		assert.Contains(t, f.uow.Sink.Names(), order.EventOrderCancelled)
	})

	t.Run("placed is not an admin target", func(t *testing.T) {
		f := newFixture(t)
		resp := f.checkout(t, 1)
		_, err := f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: resp.ID, Status: "PLACED"})
		assert.ErrorIs(t, err, order.ErrInvalidTargetStatus)
		assert.Equal(t, order.StatusFailed, f.stored(t, resp.ID).Status())
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: 1, Status: "SHIPPED"})
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
	})

	t.Run("missing order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ChangeOrderStatus(ctx, ChangeOrderStatusRequest{ID: 404, Status: "DELIVERED"})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestGetOrdersPaging(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.checkout(t, 1)
		f.now = f.now.Add(time.Minute)
	}
	f.checkout(t, 2)

	page1, err := f.svc.GetOrders(context.Background(), "", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page1.TotalCount)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 1, page1.CurrentPage)
	require.Len(t, page1.Data, 2)
	assert.Equal(t, int64(3), page1.Data[0].ID, "newest first")

	page2, err := f.svc.GetOrders(context.Background(), "", 2, 1)
	require.NoError(t, err)
	require.Len(t, page2.Data, 1)
	assert.Equal(t, int64(1), page2.Data[0].ID)

	admin, err := f.svc.GetOrders(context.Background(), "Vikram", 1, 0)
	require.NoError(t, err)
	require.Len(t, admin.Data, 1)
	assert.Equal(t, int64(2), admin.Data[0].UserID)
}

func TestGetOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.AddProduct(10, "Linen Kurta")
	f.orders.AddSize(1, "M")
	resp := f.checkout(t, 1)

	detail, err := f.svc.GetOrder(context.Background(), resp.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, resp.OrderNo, detail.Order.OrderNo)
	require.Len(t, detail.Products, 2)
	assert.Equal(t, "Linen Kurta", detail.Products[0].ProductName)
	assert.Equal(t, "M", detail.Products[0].SizeLabel)
	assert.Equal(t, int64(100000), detail.Products[0].LineSubtotal.Amount)
	require.NotNil(t, detail.Customer)
	assert.Equal(t, "Asha Rao", detail.Customer.Name)

	_, err = f.svc.GetOrder(context.Background(), resp.ID, 2)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	admin, err := f.svc.GetOrder(context.Background(), resp.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, admin.Order.ID)
}

func TestGetPreviousAddress(t *testing.T) {
	f := newFixture(t)
	f.users.AddAddress(user.AddressDTO{ID: 1, UserID: 1, Name: "Asha Rao", Phone: "9876543210", Address: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001", Country: "India"})
	f.users.AddAddress(user.AddressDTO{ID: 2, UserID: 1, Name: "Asha Office", Phone: "9876543211", Address: "4 Residency Road", City: "Bengaluru", State: "KA", Pincode: "560025", Country: "India"})
	f.users.AddAddress(user.AddressDTO{ID: 3, UserID: 2, Name: "Vikram Shah", Phone: "9123456780", Address: "1 Marine Drive", City: "Mumbai", State: "MH", Pincode: "400002", Country: "India"})

	addresses, err := f.svc.GetPreviousAddress(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "Asha Office", addresses[0].ShippingName)
	assert.Equal(t, "4 Residency Road Bengaluru KA - 560025, India", addresses[0].ShippingAddress)
	assert.Equal(t, "9876543211", addresses[0].ShippingNumber)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	f.now = time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)
	f.checkout(t, 1) // previous month
	f.now = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	f.checkout(t, 1) // Monday of the current week
	f.now = checkoutTime
	f.checkout(t, 2)
	f.checkout(t, 2)

	stats, err := f.svc.GetStats(context.Background(),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Month)
	assert.Equal(t, int64(3), stats.Week)
	assert.Equal(t, int64(2), stats.Today)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, []DailyCountResponse{
		{Date: "2024-03-04", Count: 1},
		{Date: "2024-03-09", Count: 2},
	}, stats.Stats)
}
