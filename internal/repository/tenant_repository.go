package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	// CreateWithAdmin stores a tenant, its first admin and its default settings in one transaction
	CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.Admin, settings *domain.AppSettings) error
	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
}

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	// GetByID retrieves an admin by user ID
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	// GetByEmail retrieves an admin by email, case-insensitively
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// UpdateLastLogin stamps a successful sign-in
	UpdateLastLogin(ctx context.Context, id string) error
}
