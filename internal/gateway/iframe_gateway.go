package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// IframeConfig holds the hosted gateway endpoints
type IframeConfig struct {
	CreateURL string
	VerifyURL string
	Timeout   time.Duration
}

// IframeGateway talks to the PHP payment bridge that wraps the card/mobile money iframe
type IframeGateway struct {
	cfg        IframeConfig
	httpClient *http.Client
}

// NewIframeGateway creates a new iframe gateway client
func NewIframeGateway(cfg IframeConfig) *IframeGateway {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &IframeGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Name returns the gateway name
func (g *IframeGateway) Name() string {
	return ProviderIframe
}

type iframeCreateBody struct {
	Amount            json.Number `json:"amount"`
	Currency          string      `json:"currency,omitempty"`
	Description       string      `json:"description"`
	Email             string      `json:"email"`
	Phone             string      `json:"phone"`
	FirstName         string      `json:"first_name"`
	LastName          string      `json:"last_name"`
	CallbackURL       string      `json:"callback_url"`
	MerchantReference string      `json:"merchant_reference,omitempty"`
}

type iframeCreateResult struct {
	IframeURL         string `json:"iframe_url"`
	OrderTrackingID   string `json:"order_tracking_id"`
	MerchantReference string `json:"merchant_reference"`
	Message           string `json:"message"`
}

// CreatePayment posts the order and returns the iframe URL
func (g *IframeGateway) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	body, err := json.Marshal(&iframeCreateBody{
		Amount:            json.Number(req.Amount.String()),
		Currency:          req.Currency,
		Description:       req.Description,
		Email:             req.Email,
		Phone:             req.Phone,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		CallbackURL:       req.CallbackURL,
		MerchantReference: req.MerchantReference,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.CreateURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	var result iframeCreateResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decodeErr != nil || result.IframeURL == "" {
		msg := result.Message
		if msg == "" {
			msg = ErrPaymentInitFailed.Error()
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	ref := result.MerchantReference
	if ref == "" {
		ref = req.MerchantReference
	}
	return &CreatePaymentResponse{
		IframeURL:         result.IframeURL,
		OrderTrackingID:   result.OrderTrackingID,
		MerchantReference: ref,
	}, nil
}

type iframeVerifyResult struct {
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Message     string          `json:"message"`
}

// VerifyPayment fetches the transaction status for a tracking id
func (g *IframeGateway) VerifyPayment(ctx context.Context, orderTrackingID string) (*PaymentStatus, error) {
	endpoint := g.cfg.VerifyURL + "?orderTrackingId=" + url.QueryEscape(orderTrackingID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	var result iframeVerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "Failed to verify payment"}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if msg == "" {
			msg = "Failed to verify payment"
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &PaymentStatus{
		Status:          normalizeStatus(result.Status),
		Amount:          result.Amount,
		Currency:        result.Currency,
		Description:     result.Description,
		OrderTrackingID: orderTrackingID,
		Message:         result.Message,
	}, nil
}

// normalizeStatus maps the bridge's status strings onto the three ticket states
func normalizeStatus(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case domain.PaymentStatusCompleted:
		return domain.PaymentStatusCompleted
	case "FAILED", "INVALID", "REVERSED", "CANCELLED":
		return domain.PaymentStatusFailed
	default:
		return domain.PaymentStatusPending
	}
}
