/*
Package order is the checkout core: the Order aggregate, its line items and
the status state machine.

An order is created in FAILED state when the customer starts checkout, moves
to PLACED only after the payment gateway signature is verified, and is then
moved by an administrator to DELIVERED or CANCELLED. Totals and line items
are snapshots of the cart at checkout and are never recomputed.
*/
package order

import (
	"strconv"
	"strings"
	"time"

	"checkout/domain/shared"
)

// Order aggregate root
type Order struct {
	id      int64
	orderNo string
	series  string
	userID  int64

	total        shared.Money
	discount     shared.Money
	discountType DiscountType

	billing            Contact
	shipping           Contact
	additionalComments string

	status         Status
	gatewayOrderID string
	paymentID      string

	createdAt     time.Time
	lastUpdate    time.Time
	completedTime *time.Time

	items   []OrderProduct
	version int

	events []shared.DomainEvent
	isNew  bool
}

// PlaceParams everything checkout knows when the order is created
type PlaceParams struct {
	UserID             int64
	Billing            Contact
	Shipping           Contact
	AdditionalComments string
	Lines              []LineRequest
	Currency           string
	Now                time.Time
}

// NewOrder creates an order in the initial state from a cart snapshot.
// The order has no identity until the repository assigns one on insert.
func NewOrder(p PlaceParams) (*Order, error) {
	if p.UserID <= 0 {
		return nil, shared.NewValidationError("order", "user_id", "order must belong to a user")
	}
	if len(p.Lines) == 0 {
		return nil, NewEmptyOrderItemsError()
	}

	currency := p.Currency
	if currency == "" {
		currency = shared.DefaultCurrency
	}

	items := make([]OrderProduct, 0, len(p.Lines))
	total := shared.Zero(currency)
	for _, line := range p.Lines {
		item, err := newOrderProduct(line)
		if err != nil {
			return nil, err
		}
		lineTotal, err := item.LineTotal()
		if err != nil {
			return nil, err
		}
		total, err = total.Add(lineTotal)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if total.Amount() <= 0 {
		return nil, shared.NewValidationError("order", "total", "order total must be positive")
	}

	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	series := NewSeries(now)

	return &Order{
		orderNo:            series,
		series:             series,
		userID:             p.UserID,
		total:              total,
		discount:           shared.Zero(currency),
		discountType:       DiscountNone,
		billing:            p.Billing,
		shipping:           p.Shipping,
		additionalComments: strings.TrimSpace(p.AdditionalComments),
		status:             StatusFailed,
		createdAt:          now,
		lastUpdate:         now,
		items:              items,
		isNew:              true,
	}, nil
}

// ReconstructionDTO is used by repositories to rebuild a stored order.
type ReconstructionDTO struct {
	ID                 int64
	OrderNo            string
	UserID             int64
	Total              shared.Money
	Discount           shared.Money
	DiscountType       DiscountType
	Billing            Contact
	Shipping           Contact
	AdditionalComments string
	Status             Status
	GatewayOrderID     string
	PaymentID          string
	CreatedAt          time.Time
	LastUpdate         time.Time
	CompletedTime      *time.Time
	Items              []OrderProduct
	Version            int
}

// RebuildFromDTO rebuilds an order loaded from storage. No events are recorded.
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	return &Order{
		id:                 dto.ID,
		orderNo:            dto.OrderNo,
		series:             strings.TrimSuffix(dto.OrderNo, strconv.FormatInt(dto.ID, 10)),
		userID:             dto.UserID,
		total:              dto.Total,
		discount:           dto.Discount,
		discountType:       dto.DiscountType,
		billing:            dto.Billing,
		shipping:           dto.Shipping,
		additionalComments: dto.AdditionalComments,
		status:             dto.Status,
		gatewayOrderID:     dto.GatewayOrderID,
		paymentID:          dto.PaymentID,
		createdAt:          dto.CreatedAt,
		lastUpdate:         dto.LastUpdate,
		completedTime:      dto.CompletedTime,
		items:              dto.Items,
		version:            dto.Version,
	}
}

// AssignIdentity is called by the repository right after the insert returns
// the row id. It appends the id to the series to form the final order number
// and records OrderCreated. It may be called only once.
func (o *Order) AssignIdentity(id int64) error {
	if id <= 0 {
		return shared.NewValidationError("order", "id", "order id must be positive")
	}
	if o.id != 0 {
		return ErrIdentityAlreadyAssigned
	}
	o.id = id
	o.orderNo = FormatOrderNo(o.series, id)
	o.events = append(o.events, NewOrderCreatedEvent(o))
	return nil
}

// AttachGatewayOrder records the handle returned by the payment gateway.
func (o *Order) AttachGatewayOrder(handle string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return shared.NewValidationError("order", "gateway_order_id", "gateway order handle is required")
	}
	if o.status != StatusFailed {
		return NewInvalidOrderStateError(o.status.String(), "ATTACH_GATEWAY")
	}
	if o.gatewayOrderID != "" && o.gatewayOrderID != handle {
		return NewGatewayHandleConflictError(o.IDString())
	}
	o.gatewayOrderID = handle
	return nil
}

// MarkPlaced confirms payment. Only an unpaid order can be placed.
func (o *Order) MarkPlaced(paymentID string, now time.Time) error {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return shared.NewValidationError("order", "payment_id", "payment id is required")
	}
	if err := o.transition(StatusPlaced, now); err != nil {
		return err
	}
	o.paymentID = paymentID
	o.events = append(o.events, NewOrderPlacedEvent(o))
	return nil
}

// Deliver moves a placed order to DELIVERED and sets the completion time.
func (o *Order) Deliver(now time.Time) error {
	if err := o.transition(StatusDelivered, now); err != nil {
		return err
	}
	completed := o.lastUpdate
	o.completedTime = &completed
	o.events = append(o.events, NewOrderDeliveredEvent(o))
	return nil
}

// Cancel moves any non-terminal order to CANCELLED.
func (o *Order) Cancel(now time.Time) error {
	previous := o.status
	if err := o.transition(StatusCancelled, now); err != nil {
		return err
	}
	o.events = append(o.events, NewOrderCancelledEvent(o, previous))
	return nil
}

// ChangeStatus is the administrative transition. Only DELIVERED and
// CANCELLED may be requested.
func (o *Order) ChangeStatus(target Status, now time.Time) error {
	switch target {
	case StatusDelivered:
		return o.Deliver(now)
	case StatusCancelled:
		return o.Cancel(now)
	default:
		return NewInvalidTargetStatusError(target.String())
	}
}

func (o *Order) transition(target Status, now time.Time) error {
	if !o.status.CanTransitionTo(target) {
		return NewInvalidOrderStateError(o.status.String(), target.String())
	}
	if now.IsZero() {
		now = time.Now()
	}
	o.status = target
	o.lastUpdate = now
	return nil
}

// IsOwnedBy reports whether the order belongs to userID.
func (o *Order) IsOwnedBy(userID int64) bool {
	return userID > 0 && o.userID == userID
}

// IncrementVersionForSave is called by the repository after a successful update.
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// IsNew reports whether the order has not been inserted yet.
func (o *Order) IsNew() bool { return o.isNew }

// MarkPersisted clears the new flag after the insert commits.
func (o *Order) MarkPersisted() { o.isNew = false }

func (o *Order) ID() int64                  { return o.id }
func (o *Order) IDString() string           { return strconv.FormatInt(o.id, 10) }
func (o *Order) OrderNo() string            { return o.orderNo }
func (o *Order) Series() string             { return o.series }
func (o *Order) UserID() int64              { return o.userID }
func (o *Order) Total() shared.Money        { return o.total }
func (o *Order) Discount() shared.Money     { return o.discount }
func (o *Order) DiscountType() DiscountType { return o.discountType }
func (o *Order) Billing() Contact           { return o.billing }
func (o *Order) Shipping() Contact          { return o.shipping }
func (o *Order) AdditionalComments() string { return o.additionalComments }
func (o *Order) Status() Status             { return o.status }
func (o *Order) GatewayOrderID() string     { return o.gatewayOrderID }
func (o *Order) PaymentID() string          { return o.paymentID }
func (o *Order) CreatedAt() time.Time       { return o.createdAt }
func (o *Order) LastUpdate() time.Time      { return o.lastUpdate }
func (o *Order) Version() int               { return o.version }

func (o *Order) CompletedTime() *time.Time {
	if o.completedTime == nil {
		return nil
	}
	t := *o.completedTime
	return &t
}

// Items returns a copy of the line items.
func (o *Order) Items() []OrderProduct {
	items := make([]OrderProduct, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) AggregateID() string { return o.IDString() }

// PullEvents returns the recorded events and clears them.
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

var _ shared.AggregateRoot = (*Order)(nil)
