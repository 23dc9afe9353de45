package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// ActivityRepository defines the interface for the activity feed
type ActivityRepository interface {
	// Create appends an activity
	Create(ctx context.Context, activity *domain.Activity) error
	// ListRecent retrieves the newest activities of a tenant
	ListRecent(ctx context.Context, tenantID string, limit int) ([]*domain.Activity, error)
}

// SettingsRepository defines the interface for per-tenant app settings
type SettingsRepository interface {
	// Get retrieves the settings document of a tenant
	Get(ctx context.Context, tenantID string) (*domain.AppSettings, error)
	// Upsert stores the settings document of a tenant
	Upsert(ctx context.Context, settings *domain.AppSettings) error
}
