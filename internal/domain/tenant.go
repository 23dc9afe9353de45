package domain

import (
	"time"
)

// Tenant represents an event organizer account. Its ID equals the user ID of the admin who onboarded it.
type Tenant struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organization_name"`
	ContactPerson    string    `json:"contact_person"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Package          string    `json:"package"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Admin represents a user allowed into the admin area
type Admin struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	TenantID     *string    `json:"tenant_id,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// RoleAdmin is the only role issued by onboarding
const RoleAdmin = "admin"

// HasTenant reports whether the admin is bound to a tenant
func (a *Admin) HasTenant() bool {
	return a.TenantID != nil && *a.TenantID != ""
}

// PricingPackage is an entry of the onboarding package catalogue
type PricingPackage struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Features []string `json:"features"`
}

// Package IDs
const (
	PackageBasic      = "basic"
	PackagePro        = "pro"
	PackageEnterprise = "enterprise"
)

// PricingPackages returns the static package catalogue
func PricingPackages() []PricingPackage {
	return []PricingPackage{
		{
			ID:       PackageBasic,
			Name:     "Basic",
			Price:    "KSh 1,500 / event",
			Features: []string{"QR Code Check-In", "Guest List Management", "Basic Analytics"},
		},
		{
			ID:    PackagePro,
			Name:  "Pro",
			Price: "KSh 3,500 / event",
			Features: []string{
				"Everything in Basic",
				"Real-Time Scan Dashboard",
				"Bulk SMS Invites",
				"Unlimited Guests",
			},
		},
		{
			ID:    PackageEnterprise,
			Name:  "Enterprise",
			Price: "Custom Pricing",
			Features: []string{
				"Unlimited Events",
				"Custom Branding",
				"Dedicated Support",
				"Advanced Analytics",
			},
		},
	}
}

// IsValidPackage reports whether id names a catalogue package
func IsValidPackage(id string) bool {
	for _, p := range PricingPackages() {
		if p.ID == id {
			return true
		}
	}
	return false
}
