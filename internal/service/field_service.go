package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FieldService defines the interface for the registration field registry
type FieldService interface {
	// ListFields returns every definition of a tenant ordered by order
	ListFields(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error)
	// CreateField stores a new definition
	CreateField(ctx context.Context, tenantID string, req *dto.CreateFieldRequest) (*domain.FieldDefinition, error)
	// UpdateField edits a definition. Stored guest answers are left untouched.
	UpdateField(ctx context.Context, tenantID, id string, req *dto.UpdateFieldRequest) (*domain.FieldDefinition, error)
	// SetEnabled switches a definition on or off
	SetEnabled(ctx context.Context, tenantID, id string, enabled bool) (*domain.FieldDefinition, error)
	// DeleteField removes a definition
	DeleteField(ctx context.Context, tenantID, id string) error
	// PublicForm renders the registration form of a tenant
	PublicForm(ctx context.Context, tenantID string) (*dto.RegistrationFormResponse, error)
}

type fieldService struct {
	tenantRepo   repository.TenantRepository
	fieldRepo    repository.FieldRepository
	settingsRepo repository.SettingsRepository
}

// NewFieldService creates a new FieldService
func NewFieldService(
	tenantRepo repository.TenantRepository,
	fieldRepo repository.FieldRepository,
	settingsRepo repository.SettingsRepository,
) FieldService {
	return &fieldService{
		tenantRepo:   tenantRepo,
		fieldRepo:    fieldRepo,
		settingsRepo: settingsRepo,
	}
}

// ListFields returns every definition of a tenant ordered by order
func (s *fieldService) ListFields(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error) {
	defs, err := s.fieldRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return domain.SortFields(defs), nil
}

// CreateField stores a new definition
func (s *fieldService) CreateField(ctx context.Context, tenantID string, req *dto.CreateFieldRequest) (*domain.FieldDefinition, error) {
	now := time.Now()
	field := &domain.FieldDefinition{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Label:       strings.TrimSpace(req.Label),
		Type:        domain.FieldType(strings.ToLower(strings.TrimSpace(req.Type))),
		Required:    req.Required,
		Step:        req.Step,
		Order:       req.Order,
		Placeholder: req.Placeholder,
		Options:     req.Options,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Enabled != nil {
		field.Enabled = *req.Enabled
	}
	if err := validateField(field); err != nil {
		return nil, err
	}

	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// UpdateField edits a definition
func (s *fieldService) UpdateField(ctx context.Context, tenantID, id string, req *dto.UpdateFieldRequest) (*domain.FieldDefinition, error) {
	field, err := s.getField(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		field.Label = strings.TrimSpace(*req.Label)
	}
	if req.Type != nil {
		field.Type = domain.FieldType(strings.ToLower(strings.TrimSpace(*req.Type)))
	}
	if req.Required != nil {
		field.Required = *req.Required
	}
	if req.Step != nil {
		field.Step = *req.Step
	}
	if req.Order != nil {
		field.Order = *req.Order
	}
	if req.Placeholder != nil {
		field.Placeholder = *req.Placeholder
	}
	if req.Options != nil {
		field.Options = *req.Options
	}
	if req.Enabled != nil {
		field.Enabled = *req.Enabled
	}
	// a stored definition of a retired kind can still be switched off
	if !req.TogglesOnly() {
		if err := validateField(field); err != nil {
			return nil, err
		}
	}
	field.UpdatedAt = time.Now()

	if err := s.fieldRepo.Update(ctx, field); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return field, nil
}

// SetEnabled switches a definition on or off
func (s *fieldService) SetEnabled(ctx context.Context, tenantID, id string, enabled bool) (*domain.FieldDefinition, error) {
	return s.UpdateField(ctx, tenantID, id, &dto.UpdateFieldRequest{Enabled: &enabled})
}

// DeleteField removes a definition
func (s *fieldService) DeleteField(ctx context.Context, tenantID, id string) error {
	if err := s.fieldRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFieldNotFound
		}
		return err
	}
	return nil
}

// PublicForm renders the registration form of a tenant
func (s *fieldService) PublicForm(ctx context.Context, tenantID string) (*dto.RegistrationFormResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}

	defs, err := s.fieldRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dietary, err := dietaryOptions(ctx, s.settingsRepo, tenantID)
	if err != nil {
		return nil, err
	}

	rendered, skipped := domain.RenderFields(defs)
	for _, d := range skipped {
		logger.WarnCtx(ctx, "skipping registration field with unknown type",
			zap.String("tenant_id", tenantID),
			zap.String("field_id", d.ID),
			zap.String("type", string(d.Type)),
		)
	}

	fixed := domain.FixedFields(dietary)
	steps := make([]dto.FormStep, 0, 2)
	for step := 1; step <= 2; step++ {
		fs := dto.FormStep{
			Step:        step,
			FixedFields: []domain.FixedField{},
			Fields:      []domain.RenderedField{},
		}
		for _, f := range fixed {
			if f.Step == step {
				fs.FixedFields = append(fs.FixedFields, f)
			}
		}
		for _, f := range rendered {
			if f.Step == step {
				fs.Fields = append(fs.Fields, f)
			}
		}
		steps = append(steps, fs)
	}

	return &dto.RegistrationFormResponse{
		TenantID:        tenantID,
		Steps:           steps,
		GuestCategories: domain.GuestCategories(),
		DietaryOptions:  dietary,
	}, nil
}

func (s *fieldService) getField(ctx context.Context, tenantID, id string) (*domain.FieldDefinition, error) {
	field, err := s.fieldRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if field == nil {
		return nil, ErrFieldNotFound
	}
	return field, nil
}

func validateField(field *domain.FieldDefinition) error {
	if err := field.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

// dietaryOptions returns the tenant's configured choices, or the defaults
func dietaryOptions(ctx context.Context, repo repository.SettingsRepository, tenantID string) ([]string, error) {
	settings, err := repo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if settings == nil || len(settings.DietaryOptions) == 0 {
		return domain.DefaultDietaryOptions(), nil
	}
	return settings.DietaryOptions, nil
}
