package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// CampaignRepository defines the interface for campaign data access
type CampaignRepository interface {
	// Create stores a new campaign
	Create(ctx context.Context, campaign *domain.Campaign) error
	// GetByID retrieves a campaign of a tenant
	GetByID(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	// List retrieves campaigns with optional status and type filters
	List(ctx context.Context, tenantID string, status, campaignType string, page, limit int) ([]*domain.Campaign, int, error)
	// Update updates a campaign
	Update(ctx context.Context, campaign *domain.Campaign) error
	// Delete removes a campaign
	Delete(ctx context.Context, tenantID, id string) error
}
