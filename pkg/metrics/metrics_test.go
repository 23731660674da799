package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New("checkout")

	m.ObserveHTTP(http.MethodPost, "/api/v1/orders", http.StatusCreated, 30*time.Millisecond)
	m.CheckoutOutcome("create_order", nil)
	m.CheckoutOutcome("create_order", errors.New("boom"))
	m.OutboxEvent("order.placed", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkout.WithLabelValues("create_order", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkout.WithLabelValues("create_order", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/orders", "201")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storefront_checkout_outbox_events_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	m.CheckoutOutcome("confirm_payment", nil)
	m.ObserveGateway("razorpay", "create_order", nil, time.Millisecond)
	m.OutboxEvent("order.created", nil)
	assert.NotNil(t, m.Handler())
}
