package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Provider names
const (
	ProviderIframe = "iframe"
	ProviderStripe = "stripe"
)

// ErrPaymentInitFailed is the fallback when a gateway gives no reason
var ErrPaymentInitFailed = errors.New("Payment initialization failed")

// PaymentGateway defines the interface for hosted payment pages
type PaymentGateway interface {
	// CreatePayment registers an order and returns the page the buyer pays on
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)

	// VerifyPayment asks the gateway for the outcome of an order
	VerifyPayment(ctx context.Context, orderTrackingID string) (*PaymentStatus, error)

	// Name returns the gateway name
	Name() string
}

// CreatePaymentRequest represents an order to be paid
type CreatePaymentRequest struct {
	MerchantReference string
	Amount            decimal.Decimal
	Currency          string
	Description       string
	Email             string
	Phone             string
	FirstName         string
	LastName          string
	CallbackURL       string
}

// CreatePaymentResponse carries the hosted payment page
type CreatePaymentResponse struct {
	IframeURL         string
	OrderTrackingID   string
	MerchantReference string
}

// PaymentStatus is the verified state of an order
type PaymentStatus struct {
	Status            string
	Amount            decimal.Decimal
	Currency          string
	Description       string
	OrderTrackingID   string
	MerchantReference string
	Message           string
}

// GatewayError carries the message a gateway returned with a failure
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}
