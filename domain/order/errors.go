/*
Package order - order domain errors

Every constructor captures the stack at the call site (shared.CaptureStack(3)).
The returned error matches both its own sentinel and the shared error class
through errors.Is, so the API layer only has to know the shared classes.
*/
package order

import (
	"errors"
	"strconv"

	"checkout/domain/shared"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrConcurrentModification optimistic lock conflict, the caller should retry
	ErrConcurrentModification = errors.New("order was modified by another transaction, please retry")

	ErrInvalidOrderState   = errors.New("invalid order state transition")
	ErrInvalidTargetStatus = errors.New("invalid target status")
	ErrUnknownStatus       = errors.New("unknown order status")
	ErrEmptyOrderItems     = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be positive")

	ErrIdentityAlreadyAssigned = errors.New("order identity already assigned")
	ErrGatewayHandleConflict   = errors.New("order already registered with the payment gateway")

	// ErrCheckoutDisabled the operator switched checkout off
	ErrCheckoutDisabled = errors.New("checkout restricted")

	// ErrInvalidUserOrder the ordering user cannot be resolved
	ErrInvalidUserOrder = errors.New("invalid user for order")

	ErrPaymentNotVerified   = errors.New("failed to verify payment")
	ErrGatewayOrderMismatch = errors.New("gateway order does not belong to this order")
)

func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		entity:   "order",
		message:  "Order not found",
		detail:   "order not found: " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

func NewConcurrentModificationError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrConcurrentModification,
		kind:     shared.ErrConflict,
		entity:   "order",
		message:  "order " + orderID + " was modified by another transaction, please retry",
		stack:    shared.CaptureStack(3),
	}
}

// NewInvalidOrderStateError current -> target is not in the transition table
func NewInvalidOrderStateError(current, target string) error {
	return &orderDomainError{
		sentinel: ErrInvalidOrderState,
		kind:     shared.ErrInvalidState,
		entity:   "order",
		field:    "status",
		message:  "cannot transition order from " + current + " to " + target,
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidTargetStatusError(target string) error {
	return &orderDomainError{
		sentinel: ErrInvalidTargetStatus,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "status",
		message:  "status must be DELIVERED or CANCELLED, got " + strconv.Quote(target),
		stack:    shared.CaptureStack(3),
	}
}

func NewUnknownStatusError(value string) error {
	return &orderDomainError{
		sentinel: ErrUnknownStatus,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "status",
		message:  "unknown order status " + strconv.Quote(value),
		stack:    shared.CaptureStack(3),
	}
}

func NewEmptyOrderItemsError() error {
	return &orderDomainError{
		sentinel: ErrEmptyOrderItems,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "items",
		message:  "Cart is empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidQuantityError(productID int64, quantity int) error {
	return &orderDomainError{
		sentinel: ErrInvalidQuantity,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "quantity",
		message:  "invalid quantity " + strconv.Itoa(quantity) + " for product " + strconv.FormatInt(productID, 10),
		stack:    shared.CaptureStack(3),
	}
}

func NewGatewayHandleConflictError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrGatewayHandleConflict,
		kind:     shared.ErrConflict,
		entity:   "order",
		field:    "gateway_order_id",
		message:  "order " + orderID + " is already registered with the payment gateway",
		stack:    shared.CaptureStack(3),
	}
}

func NewCheckoutDisabledError() error {
	return &orderDomainError{
		sentinel: ErrCheckoutDisabled,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		message:  "Checkout Restricted at the moment, please retry later.",
		stack:    shared.CaptureStack(3),
	}
}

func NewInvalidUserOrderError(userID int64) error {
	return &orderDomainError{
		sentinel: ErrInvalidUserOrder,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "user_id",
		message:  "Please check your credentials, unable to place order from your account.",
		detail:   "user " + strconv.FormatInt(userID, 10) + " cannot be resolved",
		stack:    shared.CaptureStack(3),
	}
}

func NewPaymentNotVerifiedError() error {
	return &orderDomainError{
		sentinel: ErrPaymentNotVerified,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "signature",
		message:  "Failed to verify payment.",
		stack:    shared.CaptureStack(3),
	}
}

func NewGatewayOrderMismatchError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrGatewayOrderMismatch,
		kind:     shared.ErrInvalidInput,
		entity:   "order",
		field:    "gateway_order_id",
		message:  "Failed to verify payment.",
		detail:   "gateway order does not match order " + orderID,
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError implements error, multi-Unwrap and shared.Stacker
type orderDomainError struct {
	sentinel error
	kind     error
	entity   string
	field    string
	message  string // safe to show to the customer
	detail   string // for logs only
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	if e.detail != "" {
		return e.message + ": " + e.detail
	}
	return e.message
}

// PublicMessage is the text rendered to API clients.
func (e *orderDomainError) PublicMessage() string {
	return e.message
}

func (e *orderDomainError) Field() string {
	return e.field
}

func (e *orderDomainError) Unwrap() []error {
	return []error{e.sentinel, e.kind}
}

func (e *orderDomainError) Stack() []string {
	return shared.FormatStack(e.stack)
}
