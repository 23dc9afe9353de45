package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses reported by the gateways
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Ticket is a paid order keyed by the merchant reference sent to the gateway
type Ticket struct {
	MerchantReference string            `json:"merchant_reference"`
	TenantID          string            `json:"tenant_id"`
	EventID           string            `json:"event_id"`
	FullName          string            `json:"full_name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Quantities        map[string]int    `json:"quantities,omitempty"`
	OrderTrackingID   string            `json:"order_tracking_id,omitempty"`
	Amount            decimal.Decimal   `json:"amount"`
	Currency          string            `json:"currency"`
	Description       string            `json:"description"`
	Status            string            `json:"status"`
	Provider          string            `json:"provider"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
