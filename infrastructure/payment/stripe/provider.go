// Package stripe is the alternative gateway over Stripe PaymentIntents.
//
// The storefront client confirms the intent with its client secret and sends
// back the intent id, the id of the resulting charge and the client secret
// as the signature; VerifyOrder checks all three against Stripe.
package stripe

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"

	"checkout/domain/payment"

	stripego "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

const Provider = "stripe"

type paymentIntentAPI interface {
	New(params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error)
	Get(id string, params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error)
}

type Config struct {
	APIKey   string
	Backends *stripego.Backends
	intents  paymentIntentAPI
}

type Gateway struct {
	intents paymentIntentAPI
}

func New(cfg Config) (*Gateway, error) {
	if cfg.intents != nil {
		return &Gateway{intents: cfg.intents}, nil
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("stripe: api key is required")
	}
	sc := client.New(apiKey, cfg.Backends)
	return &Gateway{intents: sc.PaymentIntents}, nil
}

func (g *Gateway) Name() string { return Provider }

func (g *Gateway) CreateOrder(ctx context.Context, req payment.CreateRequest) (*payment.GatewayOrder, error) {
	params := &stripego.PaymentIntentParams{
		Amount:      stripego.Int64(req.Amount.Amount()),
		Currency:    stripego.String(strings.ToLower(req.Amount.Currency())),
		Description: stripego.String("Order " + req.Receipt),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("order-" + strconv.FormatInt(req.OrderID, 10))
	params.AddMetadata("receipt", req.Receipt)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return nil, payment.NewGatewayError(Provider, "create order", statusOf(err), err)
	}

	return &payment.GatewayOrder{
		ID:           intent.ID,
		Amount:       intent.Amount,
		Currency:     strings.ToUpper(string(intent.Currency)),
		Receipt:      req.Receipt,
		Status:       string(intent.Status),
		Provider:     Provider,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (g *Gateway) VerifyOrder(ctx context.Context, v payment.Verification) (bool, error) {
	if !v.Complete() || v.OrderCreationID != v.GatewayOrderID {
		return false, nil
	}

	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	intent, err := g.intents.Get(v.GatewayOrderID, params)
	if err != nil {
		var stripeErr *stripego.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == 404 {
			return false, nil
		}
		return false, payment.NewGatewayError(Provider, "verify order", statusOf(err), err)
	}

	if intent.Status != stripego.PaymentIntentStatusSucceeded {
		return false, nil
	}
	if intent.LatestCharge == nil || intent.LatestCharge.ID != v.PaymentID {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(intent.ClientSecret), []byte(v.Signature)) == 1, nil
}

func statusOf(err error) int {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode
	}
	return 0
}

var _ payment.Gateway = (*Gateway)(nil)
