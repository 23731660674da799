/*
Package payment defines the two-call contract checkout has with an external
payment gateway: register an order amount, then verify the signed payload
the customer's client returns after paying.
*/
package payment

import (
	"context"
	"errors"
	"time"

	"checkout/domain/shared"
)

// CreateRequest registers an order with the gateway.
type CreateRequest struct {
	Amount  shared.Money // smallest currency unit
	Receipt string       // final order number
	OrderID int64
	Notes   map[string]string
}

// GatewayOrder is the gateway handle returned to the storefront client.
type GatewayOrder struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Receipt      string `json:"receipt"`
	Status       string `json:"status"`
	Provider     string `json:"provider"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Verification is the signed payload returned by the gateway's checkout widget.
type Verification struct {
	OrderCreationID string
	PaymentID       string
	GatewayOrderID  string
	Signature       string
}

// Complete reports whether every field is present.
func (v Verification) Complete() bool {
	return v.OrderCreationID != "" && v.PaymentID != "" && v.GatewayOrderID != "" && v.Signature != ""
}

// Gateway is implemented by each provider adapter.
type Gateway interface {
	Name() string
	CreateOrder(ctx context.Context, req CreateRequest) (*GatewayOrder, error)
	// VerifyOrder returns false for a bad or already used signature.
	// An error means the gateway could not be asked.
	VerifyOrder(ctx context.Context, v Verification) (bool, error)
}

// NonceStore remembers consumed values for ttl.
// UseNonce returns true only for the first use of (scope, nonce).
type NonceStore interface {
	UseNonce(ctx context.Context, scope, nonce string, ttl time.Duration) (bool, error)
}

var ErrGatewayFailure = errors.New("payment gateway failure")

// GatewayError wraps a failed gateway call. It matches ErrGatewayFailure and
// shared.ErrUpstream.
type GatewayError struct {
	Provider  string
	Operation string
	Status    int
	Err       error
	stack     []uintptr
}

func NewGatewayError(provider, operation string, status int, err error) error {
	return &GatewayError{
		Provider:  provider,
		Operation: operation,
		Status:    status,
		Err:       err,
		stack:     shared.CaptureStack(3),
	}
}

func (e *GatewayError) Error() string {
	msg := e.Provider + " " + e.Operation + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayError) Unwrap() []error {
	errs := []error{ErrGatewayFailure, shared.ErrUpstream}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *GatewayError) Stack() []string {
	return shared.FormatStack(e.stack)
}
