package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	cartapi "checkout/api/cart"
	"checkout/api/health"
	orderapi "checkout/api/order"
	cartapp "checkout/application/cart"
	orderapp "checkout/application/order"
	"checkout/config"
	"checkout/domain/cart"
	"checkout/domain/shared"
	"checkout/domain/user"
	paymentinfra "checkout/infrastructure/payment"
	"checkout/infrastructure/payment/noncestore"
	"checkout/infrastructure/payment/razorpay"
	"checkout/infrastructure/persistence/mocks"
	"checkout/pkg/auth"
	"checkout/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const keySecret = "rzp_secret"

type testServer struct {
	t       *testing.T
	handler http.Handler
	carts   *mocks.MockCartRepository
	tokens  *auth.TokenManager
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	ErrorCode  *int            `json:"error_code"`
	ErrorKey   string          `json:"error_key"`
	RequestID  string          `json:"request_id"`
	Pagination *struct {
		Page       int   `json:"page"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"pagination"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	var gatewayOrders int64
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		n := atomic.AddInt64(&gatewayOrders, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_test" + strconv.FormatInt(n, 10),
			"entity":   "order",
			"amount":   body.Amount,
			"currency": body.Currency,
			"receipt":  body.Receipt,
			"status":   "created",
		})
	}))
	t.Cleanup(gatewaySrv.Close)

	rzp, err := razorpay.New(razorpay.Config{KeyID: "rzp_test", KeySecret: keySecret, BaseURL: gatewaySrv.URL})
	require.NoError(t, err)
	m := metrics.New("checkout")
	gateway := paymentinfra.NewInstrumented(paymentinfra.NewSingleUse(rzp, noncestore.NewMemoryStore(), time.Hour), m)

	users := mocks.NewMockUserRepository()
	users.AddUser(user.ReconstructionDTO{ID: 1, Name: "Asha Rao", Phone: "9876543210", IsActive: true})
	users.AddUser(user.ReconstructionDTO{ID: 2, Name: "Store Admin", Phone: "9000000000", IsActive: true})
	orders := mocks.NewMockOrderRepository(users)
	carts := mocks.NewMockCartRepository()

	orderService := orderapp.NewApplicationService(orderapp.Dependencies{
		Orders:     orders,
		Queries:    orders,
		Carts:      carts,
		Users:      users,
		Addresses:  users,
		Settings:   mocks.NewMockSettingsRepository(),
		Gateway:    gateway,
		UoWFactory: mocks.NewMockUnitOfWorkFactory(),
		Metrics:    m,
	})

	cfg := &config.Config{
		App:     config.AppConfig{Name: "checkout", Version: "test", Env: "test"},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	tokens, err := auth.NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", Issuer: "storefront"})
	require.NoError(t, err)

	router := NewRouter(cfg, tokens, m,
		health.NewController(cfg, nil),
		orderapi.NewController(orderService),
		cartapi.NewController(cartapp.NewApplicationService(carts, "INR")),
	)
	router.SetupRoutes()

	return &testServer{t: t, handler: router.GetEngine(), carts: carts, tokens: tokens}
}

func (s *testServer) token(id auth.Identity) string {
	tok, err := s.tokens.Issue(id)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

var checkoutBody = map[string]string{
	"billing_name":     "Asha Rao",
	"billing_address":  "12 MG Road, Bengaluru",
	"billing_mobile":   "9876543210",
	"shipping_name":    "Asha Rao",
	"shipping_address": "12 MG Road, Bengaluru",
	"shipping_mobile":  "9876543210",
}

func TestCheckoutOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.carts.Add(cart.Line{UserID: 1, ProductID: 1, SizeID: 1, Quantity: 2, UnitPrice: shared.NewMoney(50000, "INR")})
	s.carts.Add(cart.Line{UserID: 1, ProductID: 2, SizeID: 1, Quantity: 1, UnitPrice: shared.NewMoney(120000, "INR")})
	customer := s.token(auth.Identity{UserID: 1, Name: "Asha Rao"})
	admin := s.token(auth.Identity{UserID: 2, Admin: true})

	w, env := s.do(http.MethodPost, "/api/v1/orders", customer, checkoutBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))

	var created orderapp.CreateOrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Status)
	require.NotNil(t, created.GatewayResponse)
	assert.Equal(t, "order_test1", created.GatewayResponse.ID)
	assert.Equal(t, int64(220000), created.GatewayResponse.Amount)

	confirm := map[string]interface{}{
		"id":                created.ID,
		"order_creation_id": created.GatewayResponse.ID,
		"payment_id":        "pay_29QQoUBi66xm2f",
		"gateway_order_id":  created.GatewayResponse.ID,
		"signature":         razorpay.Sign(created.GatewayResponse.ID, "pay_29QQoUBi66xm2f", keySecret),
	}
	w, env = s.do(http.MethodPost, "/api/v1/orders/confirm", customer, confirm)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":true}`, string(env.Data))

	w, env = s.do(http.MethodPost, "/api/v1/orders/confirm", customer, confirm)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", env.Error)
	assert.Equal(t, "invalid_order_state", env.ErrorKey)

	w, env = s.do(http.MethodGet, "/api/v1/orders", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)

	w, _ = s.do(http.MethodPut, "/api/v1/admin/orders/status", admin, map[string]interface{}{"id": created.ID, "status": "DELIVERED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, "/api/v1/admin/orders/"+strconv.FormatInt(created.ID, 10), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail orderapp.OrderDetailResponse
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "DELIVERED", detail.Order.OrderStatus)
	assert.Equal(t, "pay_29QQoUBi66xm2f", detail.Order.PaymentID)

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_checkout_http_requests_total")
	assert.Contains(t, w.Body.String(), `storefront_checkout_checkout_operations_total{operation="confirm_payment",result="ok"} 1`)
}

func TestErrorEnvelope(t *testing.T) {
	s := newTestServer(t)
	customer := s.token(auth.Identity{UserID: 1})

	w, env := s.do(http.MethodGet, "/api/v1/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error)
	assert.Equal(t, "unauthorized_request", env.ErrorKey)

	w, env = s.do(http.MethodGet, "/api/v1/admin/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden_request", env.ErrorKey)

	w, env = s.do(http.MethodPost, "/api/v1/orders", customer, map[string]string{"billing_name": "Asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.ErrorCode)
	assert.Equal(t, 0, *env.ErrorCode)
	assert.Equal(t, "invalid_credentials", env.ErrorKey)

	w, env = s.do(http.MethodPost, "/api/v1/orders", customer, checkoutBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", env.Message)

	w, env = s.do(http.MethodGet, "/api/v1/orders/999", customer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.ErrorCode)
	assert.Equal(t, 5, *env.ErrorCode)
	assert.Equal(t, "no_data", env.ErrorKey)

	w, _ = s.do(http.MethodGet, "/api/v1/orders/abc", customer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartTransferOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.carts.Add(cart.Line{DeviceID: "device-42", ProductID: 3, Quantity: 1, UnitPrice: shared.NewMoney(99900, "INR")})
	customer := s.token(auth.Identity{UserID: 1})

	w, env := s.do(http.MethodPost, "/api/v1/cart/transfer", customer, map[string]string{"device_id": "device-42"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"status":true,"transferred":true}`, string(env.Data))

	w, env = s.do(http.MethodGet, "/api/v1/cart", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snapshot cartapp.CartResponse
	require.NoError(t, json.Unmarshal(env.Data, &snapshot))
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, int64(99900), snapshot.Total.Amount)
}

func TestHealthProbes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
