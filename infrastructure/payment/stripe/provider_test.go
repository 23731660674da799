package stripe

import (
	"context"
	"testing"

	"checkout/domain/payment"
	"checkout/domain/shared"

	stripego "github.com/stripe/stripe-go/v78"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntents struct {
	created *stripego.PaymentIntentParams
	intent  *stripego.PaymentIntent
	err     error
}

func (f *fakeIntents) New(params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error) {
	f.created = params
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func (f *fakeIntents) Get(id string, params *stripego.PaymentIntentParams) (*stripego.PaymentIntent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func TestCreateOrder(t *testing.T) {
	fake := &fakeIntents{intent: &stripego.PaymentIntent{
		ID: "pi_1", Amount: 220000, Currency: "inr", Status: stripego.PaymentIntentStatusRequiresPaymentMethod, ClientSecret: "pi_1_secret",
	}}
	g, err := New(Config{intents: fake})
	require.NoError(t, err)

	out, err := g.CreateOrder(context.Background(), payment.CreateRequest{
		Amount: shared.NewMoney(220000, "INR"), Receipt: "240309140531", OrderID: 31,
		Notes: map[string]string{"orderId": "31"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(220000), *fake.created.Amount)
	assert.Equal(t, "inr", *fake.created.Currency)
	assert.Equal(t, "31", fake.created.Metadata["orderId"])
	assert.Equal(t, "pi_1", out.ID)
	assert.Equal(t, "INR", out.Currency)
	assert.Equal(t, "pi_1_secret", out.ClientSecret)
}

func TestCreateOrderError(t *testing.T) {
	g, err := New(Config{intents: &fakeIntents{err: &stripego.Error{HTTPStatusCode: 402, Msg: "card declined"}}})
	require.NoError(t, err)

	_, err = g.CreateOrder(context.Background(), payment.CreateRequest{Amount: shared.NewMoney(100, "INR")})
	assert.ErrorIs(t, err, payment.ErrGatewayFailure)
}

func TestVerifyOrder(t *testing.T) {
	intent := &stripego.PaymentIntent{
		ID: "pi_1", Status: stripego.PaymentIntentStatusSucceeded, ClientSecret: "pi_1_secret",
		LatestCharge: &stripego.Charge{ID: "ch_1"},
	}
	g, err := New(Config{intents: &fakeIntents{intent: intent}})
	require.NoError(t, err)

	v := payment.Verification{OrderCreationID: "pi_1", GatewayOrderID: "pi_1", PaymentID: "ch_1", Signature: "pi_1_secret"}
	ok, err := g.VerifyOrder(context.Background(), v)
	require.NoError(t, err)
	assert.True(t, ok)

	wrongCharge := v
	wrongCharge.PaymentID = "ch_2"
	ok, err = g.VerifyOrder(context.Background(), wrongCharge)
	require.NoError(t, err)
	assert.False(t, ok)

	intent.Status = stripego.PaymentIntentStatusProcessing
	ok, err = g.VerifyOrder(context.Background(), v)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyOrderNotFoundIsInvalid(t *testing.T) {
	g, err := New(Config{intents: &fakeIntents{err: &stripego.Error{HTTPStatusCode: 404}}})
	require.NoError(t, err)

	ok, err := g.VerifyOrder(context.Background(), payment.Verification{
		OrderCreationID: "pi_x", GatewayOrderID: "pi_x", PaymentID: "ch_x", Signature: "s",
	})
	require.NoError(t, err)
	assert.False(t, ok)
}
