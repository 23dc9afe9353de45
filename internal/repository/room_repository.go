package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// RoomRepository defines the interface for room data access
type RoomRepository interface {
	// Create stores a new room
	Create(ctx context.Context, room *domain.Room) error
	// GetByID retrieves a room of a tenant
	GetByID(ctx context.Context, tenantID, id string) (*domain.Room, error)
	// ListByTenant retrieves every room of a tenant ordered by name
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error)
	// Update updates a room
	Update(ctx context.Context, room *domain.Room) error
	// Delete removes a room
	Delete(ctx context.Context, tenantID, id string) error
}
