// Package payment wires the configured provider adapter with single-use
// signature checking, metrics and tracing.
package payment

import (
	"context"
	"fmt"
	"time"

	"checkout/config"
	domain "checkout/domain/payment"
	"checkout/infrastructure/payment/razorpay"
	"checkout/infrastructure/payment/stripe"
	"checkout/pkg/logger"
	"checkout/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const DefaultSignatureTTL = 30 * 24 * time.Hour

// New builds the gateway named by cfg.Provider.
func New(cfg config.PaymentConfig, nonces domain.NonceStore, m *metrics.Metrics) (domain.Gateway, error) {
	var provider domain.Gateway
	var err error
	switch cfg.Provider {
	case razorpay.Provider, "":
		provider, err = razorpay.New(razorpay.Config{
			KeyID:     cfg.KeyID,
			KeySecret: cfg.KeySecret,
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
		})
	case stripe.Provider:
		provider, err = stripe.New(stripe.Config{APIKey: cfg.KeySecret})
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumented(NewSingleUse(provider, nonces, cfg.SignatureTTL), m), nil
}

// SingleUse rejects a signature that already confirmed a payment.
type SingleUse struct {
	domain.Gateway
	nonces domain.NonceStore
	ttl    time.Duration
}

func NewSingleUse(gw domain.Gateway, nonces domain.NonceStore, ttl time.Duration) *SingleUse {
	if ttl <= 0 {
		ttl = DefaultSignatureTTL
	}
	return &SingleUse{Gateway: gw, nonces: nonces, ttl: ttl}
}

// VerifyOrder consumes the signature only once it has been verified, so a
// forged payload cannot burn a genuine one.
func (g *SingleUse) VerifyOrder(ctx context.Context, v domain.Verification) (bool, error) {
	ok, err := g.Gateway.VerifyOrder(ctx, v)
	if err != nil || !ok {
		return ok, err
	}

	first, err := g.nonces.UseNonce(ctx, g.Gateway.Name(), v.Signature, g.ttl)
	if err != nil {
		return false, domain.NewGatewayError(g.Gateway.Name(), "consume signature", 0, err)
	}
	if !first {
		logger.FromContext(ctx).Warn("Payment signature reused",
			zap.String("provider", g.Gateway.Name()),
			zap.String("payment_id", v.PaymentID),
			zap.String("gateway_order_id", v.GatewayOrderID),
		)
	}
	return first, nil
}

// Instrumented records latency and wraps every call in a span.
type Instrumented struct {
	next    domain.Gateway
	metrics *metrics.Metrics
}

func NewInstrumented(next domain.Gateway, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (g *Instrumented) Name() string { return g.next.Name() }

func (g *Instrumented) CreateOrder(ctx context.Context, req domain.CreateRequest) (*domain.GatewayOrder, error) {
	ctx, span := otel.Tracer("checkout/payment").Start(ctx, "payment.CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.provider", g.next.Name()),
		attribute.Int64("payment.amount", req.Amount.Amount()),
		attribute.String("order.receipt", req.Receipt),
	)

	start := time.Now()
	out, err := g.next.CreateOrder(ctx, req)
	g.metrics.ObserveGateway(g.next.Name(), "create_order", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
	}
	return out, err
}

func (g *Instrumented) VerifyOrder(ctx context.Context, v domain.Verification) (bool, error) {
	ctx, span := otel.Tracer("checkout/payment").Start(ctx, "payment.VerifyOrder")
	defer span.End()
	span.SetAttributes(attribute.String("payment.provider", g.next.Name()))

	start := time.Now()
	ok, err := g.next.VerifyOrder(ctx, v)
	g.metrics.ObserveGateway(g.next.Name(), "verify_order", err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verify order failed")
	}
	span.SetAttributes(attribute.Bool("payment.verified", ok))
	return ok, err
}

var (
	_ domain.Gateway = (*SingleUse)(nil)
	_ domain.Gateway = (*Instrumented)(nil)
)
