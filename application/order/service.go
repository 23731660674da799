/*
Package order orchestrates the checkout flow.

Application services never publish events. The Unit of Work writes the
events recorded by the Order aggregate to the outbox in the same
transaction, and the outbox worker relays them to Kafka.

The payment gateway is only ever called outside a transaction: an order is
durably stored before the gateway hears about it, and a gateway failure
leaves a FAILED order behind for support to follow up.
*/
package order

import (
	"context"
	"strconv"
	"time"

	"checkout/domain/cart"
	"checkout/domain/order"
	"checkout/domain/payment"
	"checkout/domain/settings"
	"checkout/domain/shared"
	"checkout/domain/user"
	"checkout/pkg/logger"
	"checkout/pkg/metrics"
	"checkout/pkg/sanitize"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const DefaultPerPage = 20

var tracer = otel.Tracer("checkout/application/order")

// Dependencies of the order application service. Metrics and Clock are optional.
type Dependencies struct {
	Orders     order.Repository
	Queries    order.QueryService
	Carts      cart.Repository
	Users      user.Repository
	Addresses  user.AddressRepository
	Settings   settings.Repository
	Gateway    payment.Gateway
	UoWFactory shared.UnitOfWorkFactory
	Metrics    *metrics.Metrics
	Currency   string
	PerPage    int
	Clock      func() time.Time
}

// ApplicationService coordinates the order lifecycle
type ApplicationService struct {
	orderRepo     order.Repository
	queries       order.QueryService
	cartRepo      cart.Repository
	userRepo      user.Repository
	addressRepo   user.AddressRepository
	settingsRepo  settings.Repository
	gateway       payment.Gateway
	uowFactory    shared.UnitOfWorkFactory
	domainService *order.DomainService
	metrics       *metrics.Metrics
	currency      string
	perPage       int
	now           func() time.Time
}

func NewApplicationService(deps Dependencies) *ApplicationService {
	currency := deps.Currency
	if currency == "" {
		currency = shared.DefaultCurrency
	}
	perPage := deps.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ApplicationService{
		orderRepo:     deps.Orders,
		queries:       deps.Queries,
		cartRepo:      deps.Carts,
		userRepo:      deps.Users,
		addressRepo:   deps.Addresses,
		settingsRepo:  deps.Settings,
		gateway:       deps.Gateway,
		uowFactory:    deps.UoWFactory,
		domainService: order.NewDomainService(&userCheckerAdapter{userRepo: deps.Users}, deps.Orders),
		metrics:       deps.Metrics,
		currency:      currency,
		perPage:       perPage,
		now:           clock,
	}
}

// CreateOrder snapshots the cart into a FAILED order, registers the total
// with the payment gateway and returns the gateway handle.
func (s *ApplicationService) CreateOrder(ctx context.Context, userID int64, req CreateOrderRequest) (resp *CreateOrderResponse, err error) {
	ctx, span := tracer.Start(ctx, "order.CreateOrder", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() {
		s.metrics.CheckoutOutcome("create_order", err)
		endSpan(span, err)
	}()

	storeSettings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !storeSettings.AllowCheckout {
		return nil, order.NewCheckoutDisabledError()
	}

	lines, err := s.cartRepo.ItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, order.NewEmptyOrderItemsError()
	}

	if err := s.domainService.EnsureCustomer(ctx, userID); err != nil {
		return nil, err
	}

	sanitize.Fields(
		&req.BillingName, &req.BillingAddress, &req.BillingMobile,
		&req.ShippingName, &req.ShippingAddress, &req.ShippingMobile,
		&req.AdditionalComments,
	)
	billing, err := order.NewContact("billing", req.BillingName, req.BillingAddress, req.BillingMobile)
	if err != nil {
		return nil, err
	}
	shipping, err := order.NewContact("shipping", req.ShippingName, req.ShippingAddress, req.ShippingMobile)
	if err != nil {
		return nil, err
	}

	var o *order.Order
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		created, err := order.NewOrder(order.PlaceParams{
			UserID:             userID,
			Billing:            billing,
			Shipping:           shipping,
			AdditionalComments: req.AdditionalComments,
			Lines:              toLineRequests(lines),
			Currency:           s.currency,
			Now:                s.now(),
		})
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, created); err != nil {
			return err
		}
		uow.RegisterNew(created)
		o = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With(
		zap.Int64("order_id", o.ID()),
		zap.String("order_no", o.OrderNo()),
		zap.Int64("user_id", userID),
	)
	span.SetAttributes(attribute.Int64("order.id", o.ID()), attribute.String("order.no", o.OrderNo()))

	handle, err := s.gateway.CreateOrder(ctx, payment.CreateRequest{
		Amount:  o.Total(),
		Receipt: o.OrderNo(),
		OrderID: o.ID(),
		Notes: map[string]string{
			"orderId":     o.IDString(),
			"orderNumber": o.OrderNo(),
			"userId":      strconv.FormatInt(userID, 10),
		},
	})
	if err != nil {
		log.Error("Payment gateway registration failed, order left in FAILED state", zap.Error(err))
		return nil, err
	}

	s.attachGatewayOrder(ctx, log, o.ID(), handle.ID)

	log.Info("Order created", zap.Int64("total", o.Total().Amount()), zap.String("gateway_order_id", handle.ID))
	return &CreateOrderResponse{
		ID:              o.ID(),
		OrderNo:         o.OrderNo(),
		GatewayResponse: handle,
		Status:          true,
	}, nil
}

// attachGatewayOrder stores the gateway handle. The customer already holds
// the handle, so a failure here is logged and not returned.
func (s *ApplicationService) attachGatewayOrder(ctx context.Context, log *zap.Logger, orderID int64, handle string) {
	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := o.AttachGatewayOrder(handle); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		log.Error("Failed to record gateway order handle", zap.String("gateway_order_id", handle), zap.Error(err))
	}
}

// ConfirmPayment verifies the signed gateway payload and places the order.
// The cart is cleared afterwards; a failure to clear it is only logged.
func (s *ApplicationService) ConfirmPayment(ctx context.Context, userID int64, req ConfirmPaymentRequest) (resp *StatusResponse, err error) {
	ctx, span := tracer.Start(ctx, "order.ConfirmPayment", trace.WithAttributes(
		attribute.Int64("user.id", userID),
		attribute.Int64("order.id", req.ID),
	))
	defer func() {
		s.metrics.CheckoutOutcome("confirm_payment", err)
		endSpan(span, err)
	}()

	o, err := s.domainService.OwnedOrder(ctx, req.ID, userID)
	if err != nil {
		return nil, err
	}
	// The signed payload must name this order's own gateway order on both ids.
	handle := o.GatewayOrderID()
	if handle == "" || req.GatewayOrderID != handle || req.OrderCreationID != handle {
		return nil, order.NewGatewayOrderMismatchError(o.IDString())
	}
	if !o.Status().CanTransitionTo(order.StatusPlaced) {
		return nil, order.NewInvalidOrderStateError(o.Status().String(), order.StatusPlaced.String())
	}

	verified, err := s.gateway.VerifyOrder(ctx, payment.Verification{
		OrderCreationID: req.OrderCreationID,
		PaymentID:       req.PaymentID,
		GatewayOrderID:  req.GatewayOrderID,
		Signature:       req.Signature,
	})
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, order.NewPaymentNotVerifiedError()
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		current, err := s.orderRepo.FindByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := current.MarkPlaced(req.PaymentID, s.now()); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, current); err != nil {
			return err
		}
		uow.RegisterDirty(current)
		return nil
	})
	log := logger.FromContext(ctx).With(zap.Int64("order_id", req.ID), zap.Int64("user_id", userID))
	if err != nil {
		// The signature is spent at this point; support reconciles from this entry.
		log.Error("Payment verified but order could not be placed",
			zap.String("payment_id", req.PaymentID),
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.Error(err))
		return nil, err
	}

	if err := s.cartRepo.DeleteAllByUser(ctx, userID); err != nil {
		log.Error("Failed to clear cart after payment confirmation", zap.Error(err))
	}

	log.Info("Payment confirmed", zap.String("payment_id", req.PaymentID))
	return &StatusResponse{Status: true}, nil
}

// ChangeOrderStatus administrative transition to DELIVERED or CANCELLED.
func (s *ApplicationService) ChangeOrderStatus(ctx context.Context, req ChangeOrderStatusRequest) (resp *StatusResponse, err error) {
	ctx, span := tracer.Start(ctx, "order.ChangeOrderStatus", trace.WithAttributes(
		attribute.Int64("order.id", req.ID),
		attribute.String("order.target_status", req.Status),
	))
	defer func() {
		s.metrics.CheckoutOutcome("change_status", err)
		endSpan(span, err)
	}()

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if !order.IsAdminTarget(target) {
		return nil, order.NewInvalidTargetStatusError(target.String())
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if err := o.ChangeStatus(target, s.now()); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}
		uow.RegisterDirty(o)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Order status changed",
		zap.Int64("order_id", req.ID),
		zap.String("status", target.String()),
	)
	return &StatusResponse{Status: true}, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
