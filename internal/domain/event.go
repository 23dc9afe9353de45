package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event represents a public event page of a tenant
type Event struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	Title           string          `json:"title"`
	Host            string          `json:"host"`
	Description     string          `json:"description"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date,omitempty"`
	LocationName    string          `json:"location_name,omitempty"`
	LocationMapLink string          `json:"location_map_link,omitempty"`
	City            string          `json:"city,omitempty"`
	EventType       string          `json:"event_type,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Packages        []EventPackage  `json:"packages"`
	Images          []string        `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// EventPackage is a named price option of an event
type EventPackage struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// HasPackages reports whether the event sells named packages
func (e *Event) HasPackages() bool {
	return len(e.Packages) > 0
}

// Thumbnail returns the first image, if any
func (e *Event) Thumbnail() string {
	if len(e.Images) == 0 {
		return ""
	}
	return e.Images[0]
}

// IsUpcoming reports whether the event starts at or after now
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.StartDate.Before(now)
}

// PackagePrice returns the price of the named package
func (e *Event) PackagePrice(name string) (decimal.Decimal, bool) {
	for _, p := range e.Packages {
		if p.Name == name {
			return p.Price, true
		}
	}
	return decimal.Zero, false
}
