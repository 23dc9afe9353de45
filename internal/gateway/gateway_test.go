package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func newTestRequest() *CreatePaymentRequest {
	return &CreatePaymentRequest{
		MerchantReference: "ref-1",
		Amount:            decimal.NewFromInt(3000),
		Currency:          "KES",
		Description:       "Tickets for Launch Night",
		Email:             "buyer@example.com",
		Phone:             "+254700000000",
		FirstName:         "Jane",
		LastName:          "Doe",
		CallbackURL:       "https://app.example.com/payment-response",
	}
}

func TestIframeGateway_CreatePayment(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"iframe_url":        "https://pay.example.com/iframe/abc",
			"order_tracking_id": "track-1",
		})
	}))
	defer srv.Close()

	g := NewIframeGateway(IframeConfig{CreateURL: srv.URL})
	resp, err := g.CreatePayment(context.Background(), newTestRequest())
	require.NoError(t, err)

	assert.Equal(t, "https://pay.example.com/iframe/abc", resp.IframeURL)
	assert.Equal(t, "track-1", resp.OrderTrackingID)
	assert.Equal(t, "ref-1", resp.MerchantReference)
	assert.Equal(t, "Jane", got["first_name"])
	assert.Equal(t, "Doe", got["last_name"])
	assert.Equal(t, "https://app.example.com/payment-response", got["callback_url"])
	assert.Equal(t, float64(3000), got["amount"])
}

func TestIframeGateway_CreatePayment_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"gateway message", http.StatusBadRequest, `{"message":"Invalid phone number"}`, "Invalid phone number"},
		{"no iframe url", http.StatusOK, `{}`, "Payment initialization failed"},
		{"not json", http.StatusBadGateway, `<html>`, "Payment initialization failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewIframeGateway(IframeConfig{CreateURL: srv.URL})
			_, err := g.CreatePayment(context.Background(), newTestRequest())

			var gwErr *GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tt.wantMsg, gwErr.Message)
			assert.Equal(t, tt.status, gwErr.StatusCode)
		})
	}
}

func TestIframeGateway_VerifyPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "track-1", r.URL.Query().Get("orderTrackingId"))
		_, _ = w.Write([]byte(`{"status":"COMPLETED","amount":3000,"currency":"KES","description":"Tickets"}`))
	}))
	defer srv.Close()

	g := NewIframeGateway(IframeConfig{VerifyURL: srv.URL})
	status, err := g.VerifyPayment(context.Background(), "track-1")
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusCompleted, status.Status)
	assert.True(t, decimal.NewFromInt(3000).Equal(status.Amount))
	assert.Equal(t, "KES", status.Currency)
	assert.Equal(t, "track-1", status.OrderTrackingID)
}

func TestIframeGateway_VerifyPayment_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Unknown order"}`))
	}))
	defer srv.Close()

	g := NewIframeGateway(IframeConfig{VerifyURL: srv.URL})
	_, err := g.VerifyPayment(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "Unknown order", err.Error())
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, domain.PaymentStatusCompleted, normalizeStatus("completed"))
	assert.Equal(t, domain.PaymentStatusFailed, normalizeStatus("FAILED"))
	assert.Equal(t, domain.PaymentStatusFailed, normalizeStatus("Reversed"))
	assert.Equal(t, domain.PaymentStatusPending, normalizeStatus(""))
}

func TestStripeHelpers(t *testing.T) {
	assert.Equal(t, domain.PaymentStatusCompleted,
		stripeStatus(stripe.CheckoutSessionStatusComplete, stripe.CheckoutSessionPaymentStatusPaid))
	assert.Equal(t, domain.PaymentStatusFailed,
		stripeStatus(stripe.CheckoutSessionStatusExpired, stripe.CheckoutSessionPaymentStatusUnpaid))
	assert.Equal(t, domain.PaymentStatusPending,
		stripeStatus(stripe.CheckoutSessionStatusOpen, stripe.CheckoutSessionPaymentStatusUnpaid))

	assert.Equal(t, int64(150050), toMinorUnits(decimal.RequireFromString("1500.50")))
	assert.True(t, decimal.RequireFromString("1500.5").Equal(fromMinorUnits(150050)))

	assert.Equal(t,
		"https://x.test/cb?OrderTrackingId={CHECKOUT_SESSION_ID}&OrderMerchantReference=ref+1",
		successURL("https://x.test/cb", "ref 1"))
	assert.Contains(t, successURL("https://x.test/cb?a=1", "r"), "?a=1&OrderTrackingId=")
}
