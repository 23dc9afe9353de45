package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// FieldRepository defines the interface for registration field definitions
type FieldRepository interface {
	// Create stores a new field definition
	Create(ctx context.Context, field *domain.FieldDefinition) error
	// GetByID retrieves a field definition of a tenant
	GetByID(ctx context.Context, tenantID, id string) (*domain.FieldDefinition, error)
	// ListByTenant retrieves every definition of a tenant ordered by order
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error)
	// Update updates a field definition
	Update(ctx context.Context, field *domain.FieldDefinition) error
	// Delete removes a field definition
	Delete(ctx context.Context, tenantID, id string) error
}
