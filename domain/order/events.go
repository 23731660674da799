package order

import (
	"time"

	"checkout/domain/shared"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderPlaced    = "order.placed"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

// orderEvent carries the fields every order event shares.
type orderEvent struct {
	name       string
	orderID    string
	orderNo    string
	userID     int64
	status     Status
	occurredOn time.Time
}

func newOrderEvent(name string, o *Order) orderEvent {
	return orderEvent{
		name:       name,
		orderID:    o.IDString(),
		orderNo:    o.orderNo,
		userID:     o.userID,
		status:     o.status,
		occurredOn: time.Now(),
	}
}

func (e orderEvent) EventName() string      { return e.name }
func (e orderEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e orderEvent) GetAggregateID() string { return e.orderID }
func (e orderEvent) OrderID() string        { return e.orderID }
func (e orderEvent) OrderNo() string        { return e.orderNo }
func (e orderEvent) UserID() int64          { return e.userID }

func (e orderEvent) basePayload() map[string]interface{} {
	return map[string]interface{}{
		"order_id": e.orderID,
		"order_no": e.orderNo,
		"user_id":  e.userID,
		"status":   string(e.status),
	}
}

type OrderCreatedEvent struct {
	orderEvent
	total shared.Money
	items int
}

func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{orderEvent: newOrderEvent(EventOrderCreated, o), total: o.total, items: len(o.items)}
}

func (e *OrderCreatedEvent) Total() shared.Money { return e.total }

func (e *OrderCreatedEvent) Payload() map[string]interface{} {
	p := e.basePayload()
	p["total"] = e.total.Amount()
	p["currency"] = e.total.Currency()
	p["line_items"] = e.items
	return p
}

type OrderPlacedEvent struct {
	orderEvent
	paymentID string
	total     shared.Money
}

func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{orderEvent: newOrderEvent(EventOrderPlaced, o), paymentID: o.paymentID, total: o.total}
}

func (e *OrderPlacedEvent) PaymentID() string { return e.paymentID }

func (e *OrderPlacedEvent) Payload() map[string]interface{} {
	p := e.basePayload()
	p["payment_id"] = e.paymentID
	p["total"] = e.total.Amount()
	p["currency"] = e.total.Currency()
	return p
}

type OrderDeliveredEvent struct {
	orderEvent
}

func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{orderEvent: newOrderEvent(EventOrderDelivered, o)}
}

func (e *OrderDeliveredEvent) Payload() map[string]interface{} {
	return e.basePayload()
}

type OrderCancelledEvent struct {
	orderEvent
	previous Status
}

func NewOrderCancelledEvent(o *Order, previous Status) *OrderCancelledEvent {
	return &OrderCancelledEvent{orderEvent: newOrderEvent(EventOrderCancelled, o), previous: previous}
}

func (e *OrderCancelledEvent) PreviousStatus() Status { return e.previous }

func (e *OrderCancelledEvent) Payload() map[string]interface{} {
	p := e.basePayload()
	p["previous_status"] = string(e.previous)
	return p
}
