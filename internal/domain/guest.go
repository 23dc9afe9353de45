package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GuestStatus represents where a guest is in the check-in lifecycle
type GuestStatus string

const (
	GuestStatusPending   GuestStatus = "pending"
	GuestStatusCheckedIn GuestStatus = "checked-in"
	GuestStatusFlagged   GuestStatus = "flagged"
	GuestStatusNoShow    GuestStatus = "no-show"
)

// ErrInvalidGuestTransition is returned when a status change is not allowed
var ErrInvalidGuestTransition = errors.New("invalid guest status transition")

// validGuestTransitions defines allowed status changes.
// Key is current status, value is list of allowed next statuses
var validGuestTransitions = map[GuestStatus][]GuestStatus{
	GuestStatusPending:   {GuestStatusCheckedIn, GuestStatusFlagged, GuestStatusNoShow},
	GuestStatusCheckedIn: {GuestStatusPending},
	GuestStatusFlagged:   {GuestStatusPending, GuestStatusCheckedIn},
	GuestStatusNoShow:    {GuestStatusPending, GuestStatusCheckedIn},
}

// IsValid returns true if the status is a known guest status
func (s GuestStatus) IsValid() bool {
	_, exists := validGuestTransitions[s]
	return exists
}

// CanTransitionTo returns true if a change to target is allowed
func (s GuestStatus) CanTransitionTo(target GuestStatus) bool {
	for _, allowed := range validGuestTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Guest categories accepted by the registration form
const (
	CategoryVIP     = "VIP"
	CategoryGuest   = "Guest"
	CategorySpeaker = "Speaker"
)

// GuestCategories returns the selectable guest categories
func GuestCategories() []string {
	return []string{CategoryVIP, CategoryGuest, CategorySpeaker}
}

// IsValidCategory reports whether c is a selectable guest category
func IsValidCategory(c string) bool {
	for _, cat := range GuestCategories() {
		if cat == c {
			return true
		}
	}
	return false
}

// DefaultDietary is stored when a guest leaves the dietary choice empty
const DefaultDietary = "None"

// DefaultTicketType is shown for guests without a category
const DefaultTicketType = "General"

// Guest is a registered attendee of a tenant
type Guest struct {
	ID                  string                 `json:"id"`
	TenantID            string                 `json:"tenant_id"`
	FirstName           string                 `json:"first_name"`
	LastName            string                 `json:"last_name"`
	Email               string                 `json:"email"`
	Phone               string                 `json:"phone"`
	CompanyOrIndividual string                 `json:"company_or_individual"`
	GuestCategory       string                 `json:"guest_category"`
	DietaryRestrictions string                 `json:"dietary_restrictions"`
	Status              GuestStatus            `json:"status"`
	AmountPaid          decimal.Decimal        `json:"amount_paid"`
	CustomFields        map[string]interface{} `json:"custom_fields"`
	CheckedInAt         *time.Time             `json:"checked_in_at,omitempty"`
	RegisteredAt        time.Time              `json:"registered_at"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// Name returns the display name
func (g *Guest) Name() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// TicketType returns the guest category, or "General" when none is set
func (g *Guest) TicketType() string {
	if g.GuestCategory == "" {
		return DefaultTicketType
	}
	return g.GuestCategory
}

// IsVIP reports whether the guest is in the VIP category
func (g *Guest) IsVIP() bool {
	return g.GuestCategory == CategoryVIP
}

// IsCheckedIn reports whether the guest is currently checked in
func (g *Guest) IsCheckedIn() bool {
	return g.Status == GuestStatusCheckedIn
}

// TransitionTo moves the guest to target, stamping or clearing CheckedInAt
func (g *Guest) TransitionTo(target GuestStatus, now time.Time) error {
	if g.Status == target {
		return nil
	}
	if !g.Status.CanTransitionTo(target) {
		return ErrInvalidGuestTransition
	}
	g.Status = target
	if target == GuestStatusCheckedIn {
		g.CheckedInAt = &now
	} else {
		g.CheckedInAt = nil
	}
	g.UpdatedAt = now
	return nil
}

// QRPayload returns the value encoded in the guest's ticket QR code
func (g *Guest) QRPayload() string {
	return TicketPayload(g.ID)
}
