package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// GuestFilter narrows a guest listing. Limit 0 returns every match.
type GuestFilter struct {
	Search     string
	Status     string
	TicketType string
	IDs        []string
	Page       int
	Limit      int
}

// GuestRepository defines the interface for guest data access
type GuestRepository interface {
	// Create stores a new guest
	Create(ctx context.Context, guest *domain.Guest) error
	// GetByID retrieves a guest of a tenant
	GetByID(ctx context.Context, tenantID, id string) (*domain.Guest, error)
	// FindByEmail retrieves the first guest of a tenant with the email, case-insensitively
	FindByEmail(ctx context.Context, tenantID, email string) (*domain.Guest, error)
	// List retrieves guests with filters and pagination
	List(ctx context.Context, tenantID string, filter GuestFilter) ([]*domain.Guest, int, error)
	// Update updates a guest
	Update(ctx context.Context, guest *domain.Guest) error
	// Delete hard deletes a guest
	Delete(ctx context.Context, tenantID, id string) error
	// CountByStatus counts the guests of a tenant per status
	CountByStatus(ctx context.Context, tenantID string) (map[domain.GuestStatus]int, error)
}
