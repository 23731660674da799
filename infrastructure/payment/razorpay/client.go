// Package razorpay is the Razorpay Orders adapter: it registers an order
// amount over the REST API and verifies the checkout signature locally.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"checkout/domain/payment"
)

const (
	Provider       = "razorpay"
	DefaultBaseURL = "https://api.razorpay.com/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4096
)

type Config struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, errors.New("razorpay: key id and key secret are required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		http:      httpClient,
	}, nil
}

func (c *Client) Name() string { return Provider }

type createOrderBody struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder POST /orders. The amount is sent exactly as stored, in paise.
func (c *Client) CreateOrder(ctx context.Context, req payment.CreateRequest) (*payment.GatewayOrder, error) {
	body, err := json.Marshal(createOrderBody{
		Amount:   req.Amount.Amount(),
		Currency: req.Amount.Currency(),
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, payment.NewGatewayError(Provider, "create order", 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, payment.NewGatewayError(Provider, "create order", 0, err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, payment.NewGatewayError(Provider, "create order", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, payment.NewGatewayError(Provider, "create order", resp.StatusCode, decodeError(resp.Body))
	}

	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, payment.NewGatewayError(Provider, "create order", resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	if out.ID == "" {
		return nil, payment.NewGatewayError(Provider, "create order", resp.StatusCode, errors.New("response has no order id"))
	}

	return &payment.GatewayOrder{
		ID:       out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		Receipt:  out.Receipt,
		Status:   out.Status,
		Provider: Provider,
	}, nil
}

func decodeError(r io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error.Description != "" {
		return fmt.Errorf("%s: %s", e.Error.Code, e.Error.Description)
	}
	return fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw)))
}

// VerifyOrder checks the checkout signature:
// hex(HMAC-SHA256(order_creation_id + "|" + payment_id, key_secret)).
// The signed order id must be the gateway order being confirmed.
// No network call is made.
func (c *Client) VerifyOrder(ctx context.Context, v payment.Verification) (bool, error) {
	if !v.Complete() || v.OrderCreationID != v.GatewayOrderID {
		return false, nil
	}
	expected := Sign(v.OrderCreationID, v.PaymentID, c.keySecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(v.Signature))), nil
}

// Sign returns the signature Razorpay's checkout produces for a payment.
func Sign(orderCreationID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderCreationID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

var _ payment.Gateway = (*Client)(nil)
