package service

import (
	"context"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
)

// SettingsService defines the per-tenant settings document
type SettingsService interface {
	// GetSettings returns the stored settings, or the defaults when none exist
	GetSettings(ctx context.Context, tenantID string) (*domain.AppSettings, error)
	// UpdateSettings merges req into the stored settings
	UpdateSettings(ctx context.Context, tenantID string, req *dto.UpdateSettingsRequest) (*domain.AppSettings, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(ctx context.Context, tenantID string) (*domain.AppSettings, error) {
	settings, err := s.settingsRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return domain.DefaultAppSettings(tenantID), nil
	}
	return settings, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, tenantID string, req *dto.UpdateSettingsRequest) (*domain.AppSettings, error) {
	settings, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.DietaryOptions != nil {
		options := make([]string, 0, len(*req.DietaryOptions))
		for _, opt := range *req.DietaryOptions {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		if len(options) == 0 {
			return nil, invalid("At least one dietary option is required")
		}
		settings.DietaryOptions = options
	}
	if req.EventName != nil {
		settings.EventName = *req.EventName
	}
	if req.EventDate != nil {
		settings.EventDate = *req.EventDate
	}
	if req.Venue != nil {
		settings.Venue = *req.Venue
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.Capacity != nil {
		settings.Capacity = *req.Capacity
	}
	if req.Features != nil {
		settings.Features = *req.Features
	}
	if req.Notifications != nil {
		settings.Notifications = *req.Notifications
	}
	if req.Privacy != nil {
		settings.Privacy = *req.Privacy
	}
	settings.TenantID = tenantID
	settings.UpdatedAt = time.Now()

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
