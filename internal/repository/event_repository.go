package repository

import (
	"context"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create stores a new event
	Create(ctx context.Context, event *domain.Event) error
	// GetByID retrieves an event of a tenant
	GetByID(ctx context.Context, tenantID, id string) (*domain.Event, error)
	// List retrieves events with pagination and search
	List(ctx context.Context, tenantID string, page, limit int, search string) ([]*domain.Event, int, error)
	// ListUpcoming retrieves events starting at or after from, excluding one event
	ListUpcoming(ctx context.Context, tenantID string, from time.Time, excludeID string, limit int) ([]*domain.Event, error)
	// Update updates an event
	Update(ctx context.Context, event *domain.Event) error
	// AppendImages appends image URLs and returns the full image list
	AppendImages(ctx context.Context, tenantID, id string, urls []string) ([]string, error)
	// Delete removes an event
	Delete(ctx context.Context, tenantID, id string) error
}
