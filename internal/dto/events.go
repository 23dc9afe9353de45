package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Topic names for domain events
const (
	TopicGuestRegistered = "invent.guest.registered"
	TopicGuestCheckedIn  = "invent.guest.checked_in"
	TopicCampaignSent    = "invent.campaign.sent"
	TopicTicketIssued    = "invent.ticket.issued"
)

// GuestRegisteredEvent is published after a public registration is stored
type GuestRegisteredEvent struct {
	EventType     string    `json:"event_type"`
	TenantID      string    `json:"tenant_id"`
	GuestID       string    `json:"guest_id"`
	Email         string    `json:"email"`
	GuestCategory string    `json:"guest_category"`
	QRPayload     string    `json:"qr_payload"`
	Timestamp     time.Time `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *GuestRegisteredEvent) Key() string {
	return e.GuestID
}

// GuestCheckedInEvent is published when the scanner checks a guest in
type GuestCheckedInEvent struct {
	EventType   string    `json:"event_type"`
	TenantID    string    `json:"tenant_id"`
	GuestID     string    `json:"guest_id"`
	SessionID   string    `json:"session_id,omitempty"`
	TicketType  string    `json:"ticket_type"`
	IsVIP       bool      `json:"is_vip"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *GuestCheckedInEvent) Key() string {
	return e.GuestID
}

// CampaignSentEvent records the intent to deliver a campaign; nothing dispatches it yet
type CampaignSentEvent struct {
	EventType  string    `json:"event_type"`
	TenantID   string    `json:"tenant_id"`
	CampaignID string    `json:"campaign_id"`
	Type       string    `json:"type"`
	Audience   string    `json:"audience"`
	Recipients int       `json:"recipients"`
	Message    string    `json:"message"`
	ImageURL   string    `json:"image_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *CampaignSentEvent) Key() string {
	return e.CampaignID
}

// TicketIssuedEvent is published when a verified payment produces a ticket
type TicketIssuedEvent struct {
	EventType         string          `json:"event_type"`
	TenantID          string          `json:"tenant_id,omitempty"`
	EventID           string          `json:"event_id,omitempty"`
	MerchantReference string          `json:"merchant_reference"`
	OrderTrackingID   string          `json:"order_tracking_id"`
	Email             string          `json:"email,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Timestamp         time.Time       `json:"timestamp"`
}

// Key returns the Kafka message key for partitioning
func (e *TicketIssuedEvent) Key() string {
	return e.MerchantReference
}
