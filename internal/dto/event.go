package dto

import (
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/shopspring/decimal"
)

// EventPackageRequest is a named price option
type EventPackageRequest struct {
	Name  string          `json:"name" binding:"required,max=100"`
	Price decimal.Decimal `json:"price"`
}

// CreateEventRequest represents a new event
type CreateEventRequest struct {
	Title           string                `json:"title" binding:"required,max=255"`
	Host            string                `json:"host" binding:"required,max=255"`
	Description     string                `json:"description" binding:"required"`
	StartDate       time.Time             `json:"start_date"`
	EndDate         *time.Time            `json:"end_date"`
	LocationName    string                `json:"location_name" binding:"omitempty,max=255"`
	LocationMapLink string                `json:"location_map_link" binding:"omitempty,url"`
	City            string                `json:"city" binding:"omitempty,max=100"`
	EventType       string                `json:"event_type" binding:"omitempty,max=100"`
	Price           decimal.Decimal       `json:"price"`
	Packages        []EventPackageRequest `json:"packages" binding:"omitempty,dive"`
}

// Validate checks the rules binding tags cannot express
func (r *CreateEventRequest) Validate() (bool, string) {
	if r.StartDate.IsZero() {
		return false, "Start date is required"
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return false, "End date must not be before start date"
	}
	return validatePricing(r.Price, r.Packages)
}

func validatePricing(price decimal.Decimal, packages []EventPackageRequest) (bool, string) {
	if len(packages) == 0 {
		if !price.IsPositive() {
			return false, "Price must be greater than 0 when no packages are given"
		}
		return true, ""
	}
	seen := map[string]bool{}
	for _, p := range packages {
		if !p.Price.IsPositive() {
			return false, "Package price must be greater than 0"
		}
		if seen[p.Name] {
			return false, "Package names must be unique"
		}
		seen[p.Name] = true
	}
	return true, ""
}

// ToPackages converts request packages to domain packages
func ToPackages(in []EventPackageRequest) []domain.EventPackage {
	out := make([]domain.EventPackage, 0, len(in))
	for _, p := range in {
		out = append(out, domain.EventPackage{Name: p.Name, Price: p.Price})
	}
	return out
}

// UpdateEventRequest represents an event edit
type UpdateEventRequest struct {
	Title           *string                `json:"title" binding:"omitempty,min=1,max=255"`
	Host            *string                `json:"host" binding:"omitempty,min=1,max=255"`
	Description     *string                `json:"description" binding:"omitempty,min=1"`
	StartDate       *time.Time             `json:"start_date"`
	EndDate         *time.Time             `json:"end_date"`
	LocationName    *string                `json:"location_name" binding:"omitempty,max=255"`
	LocationMapLink *string                `json:"location_map_link" binding:"omitempty,url"`
	City            *string                `json:"city" binding:"omitempty,max=100"`
	EventType       *string                `json:"event_type" binding:"omitempty,max=100"`
	Price           *decimal.Decimal       `json:"price"`
	Packages        *[]EventPackageRequest `json:"packages"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateEventRequest) Validate() (bool, string) {
	if r.Title == nil && r.Host == nil && r.Description == nil && r.StartDate == nil &&
		r.EndDate == nil && r.LocationName == nil && r.LocationMapLink == nil && r.City == nil &&
		r.EventType == nil && r.Price == nil && r.Packages == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// ListEventsQuery represents query parameters for listing events
type ListEventsQuery struct {
	Search string `form:"search" binding:"omitempty,max=255"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults sets default values for query parameters
func (q *ListEventsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// ListEventsResponse represents a paginated list of events
type ListEventsResponse struct {
	Events     []*domain.Event `json:"events"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// EventSummary is a compact card of another upcoming event
type EventSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	StartDate    time.Time `json:"start_date"`
	City         string    `json:"city,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
}

// PublicEventResponse is the public event page
type PublicEventResponse struct {
	Event       *domain.Event   `json:"event"`
	OtherEvents []*EventSummary `json:"other_events"`
}

// UploadImagesResponse reports the stored image URLs
type UploadImagesResponse struct {
	Uploaded []string `json:"uploaded"`
	Images   []string `json:"images"`
}
