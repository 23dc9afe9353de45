package dto

import (
	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
)

// CheckoutRequest represents a ticket purchase on the public event page
type CheckoutRequest struct {
	FullName   string         `json:"full_name" binding:"required,max=255"`
	Email      string         `json:"email" binding:"required,email"`
	Phone      string         `json:"phone" binding:"required,max=50"`
	AgreeTerms bool           `json:"agree_terms"`
	Quantities map[string]int `json:"quantities"`
}

// CheckoutResponse carries the hosted payment page
type CheckoutResponse struct {
	IframeURL         string          `json:"iframe_url"`
	MerchantReference string          `json:"merchant_reference"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
}

// PaymentResponseQuery holds the parameters the gateway redirects back with
type PaymentResponseQuery struct {
	OrderTrackingID        string `form:"OrderTrackingId"`
	OrderMerchantReference string `form:"OrderMerchantReference"`
}

// PaymentResultResponse reports the verified payment outcome
type PaymentResultResponse struct {
	Status            string         `json:"status"`
	MerchantReference string         `json:"merchant_reference"`
	OrderTrackingID   string         `json:"order_tracking_id"`
	Message           string         `json:"message,omitempty"`
	Ticket            *domain.Ticket `json:"ticket,omitempty"`
}
