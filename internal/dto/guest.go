package dto

import (
	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
)

// ListGuestsQuery represents query parameters for listing guests
type ListGuestsQuery struct {
	Search     string `form:"search" binding:"omitempty,max=255"`
	Status     string `form:"status" binding:"omitempty,oneof=pending checked-in flagged no-show"`
	TicketType string `form:"ticket_type" binding:"omitempty,max=100"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults sets default values for query parameters
func (q *ListGuestsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// UpdateGuestRequest represents an admin edit of a guest
type UpdateGuestRequest struct {
	FirstName           *string                 `json:"first_name" binding:"omitempty,min=1,max=255"`
	LastName            *string                 `json:"last_name" binding:"omitempty,min=1,max=255"`
	Email               *string                 `json:"email" binding:"omitempty,email"`
	Phone               *string                 `json:"phone" binding:"omitempty,max=50"`
	CompanyOrIndividual *string                 `json:"company_or_individual" binding:"omitempty,max=255"`
	GuestCategory       *string                 `json:"guest_category" binding:"omitempty,oneof=VIP Guest Speaker"`
	DietaryRestrictions *string                 `json:"dietary_restrictions" binding:"omitempty,max=100"`
	AmountPaid          *decimal.Decimal        `json:"amount_paid"`
	CustomFields        *map[string]interface{} `json:"custom_fields"`
	Status              *string                 `json:"status" binding:"omitempty,oneof=pending checked-in flagged no-show"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateGuestRequest) Validate() (bool, string) {
	if r.FirstName == nil && r.LastName == nil && r.Email == nil && r.Phone == nil &&
		r.CompanyOrIndividual == nil && r.GuestCategory == nil && r.DietaryRestrictions == nil &&
		r.AmountPaid == nil && r.CustomFields == nil && r.Status == nil {
		return false, "At least one field must be provided for update"
	}
	if r.AmountPaid != nil && r.AmountPaid.IsNegative() {
		return false, "Amount paid cannot be negative"
	}
	return true, ""
}

// GuestResponse represents a guest with derived display values
type GuestResponse struct {
	*domain.Guest
	Name       string `json:"name"`
	TicketType string `json:"ticket_type"`
	QRPayload  string `json:"qr_payload"`
}

// NewGuestResponse converts a domain Guest to GuestResponse
func NewGuestResponse(g *domain.Guest) *GuestResponse {
	return &GuestResponse{
		Guest:      g,
		Name:       g.Name(),
		TicketType: g.TicketType(),
		QRPayload:  g.QRPayload(),
	}
}

// ListGuestsResponse represents a paginated list of guests
type ListGuestsResponse struct {
	Guests     []*GuestResponse `json:"guests"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ExportGuestsRequest selects the guests to export; empty means all
type ExportGuestsRequest struct {
	GuestIDs []string `json:"guest_ids"`
}

// ScanRequest carries the raw value read from a QR code
type ScanRequest struct {
	Ticket string `json:"ticket" binding:"required,max=255"`
}
