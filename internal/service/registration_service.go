package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/qrcode"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RegistrationService defines the public multi-step registration flow
type RegistrationService interface {
	// ValidateStep reports whether one step of the form is complete
	ValidateStep(ctx context.Context, tenantID string, req *dto.ValidateStepRequest) (*dto.StepValidationResponse, error)
	// Register re-checks both steps and stores a pending guest
	Register(ctx context.Context, tenantID string, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error)
	// TicketQR renders the QR code of a registered guest
	TicketQR(ctx context.Context, tenantID, guestID string) ([]byte, error)
}

type registrationService struct {
	tenantRepo   repository.TenantRepository
	fieldRepo    repository.FieldRepository
	guestRepo    repository.GuestRepository
	activityRepo repository.ActivityRepository
	producer     kafka.Producer
	metrics      *telemetry.Metrics
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	tenantRepo repository.TenantRepository,
	fieldRepo repository.FieldRepository,
	guestRepo repository.GuestRepository,
	activityRepo repository.ActivityRepository,
	producer kafka.Producer,
	metrics *telemetry.Metrics,
) RegistrationService {
	return &registrationService{
		tenantRepo:   tenantRepo,
		fieldRepo:    fieldRepo,
		guestRepo:    guestRepo,
		activityRepo: activityRepo,
		producer:     producer,
		metrics:      metrics,
	}
}

// ValidateStep reports whether one step of the form is complete
func (s *registrationService) ValidateStep(ctx context.Context, tenantID string, req *dto.ValidateStepRequest) (*dto.StepValidationResponse, error) {
	defs, err := s.formFields(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return checkStep(defs, req.Step, &req.RegistrationRequest), nil
}

// Register re-checks both steps and stores a pending guest
func (s *registrationService) Register(ctx context.Context, tenantID string, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error) {
	defs, err := s.formFields(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	for step := 1; step <= 2; step++ {
		if res := checkStep(defs, step, req); !res.Valid {
			return nil, stepError(res)
		}
	}

	email := strings.TrimSpace(req.Email)
	existing, err := s.guestRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing guest: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateGuest
	}

	dietary := strings.TrimSpace(req.DietaryRestrictions)
	if dietary == "" {
		dietary = domain.DefaultDietary
	}
	customFields := req.CustomFields
	if customFields == nil {
		customFields = map[string]interface{}{}
	}

	now := time.Now()
	guest := &domain.Guest{
		ID:                  uuid.New().String(),
		TenantID:            tenantID,
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Email:               email,
		Phone:               strings.TrimSpace(req.Phone),
		CompanyOrIndividual: strings.TrimSpace(req.CompanyOrIndividual),
		GuestCategory:       req.GuestCategory,
		DietaryRestrictions: dietary,
		Status:              domain.GuestStatusPending,
		AmountPaid:          decimal.Zero,
		CustomFields:        customFields,
		RegisteredAt:        now,
		UpdatedAt:           now,
	}

	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("failed to store guest: %w", err)
	}

	logger.InfoCtx(ctx, "guest registered",
		zap.String("tenant_id", tenantID),
		zap.String("guest_id", guest.ID),
		zap.String("category", guest.GuestCategory),
	)
	s.metrics.RecordRegistration(ctx, tenantID, guest.TicketType())

	publish(ctx, s.producer, dto.TopicGuestRegistered, &dto.GuestRegisteredEvent{
		EventType:     "guest.registered",
		TenantID:      tenantID,
		GuestID:       guest.ID,
		Email:         guest.Email,
		GuestCategory: guest.GuestCategory,
		QRPayload:     guest.QRPayload(),
		Timestamp:     now,
	})
	recordActivity(ctx, s.activityRepo, tenantID, domain.ActivityRegistered,
		fmt.Sprintf("%s registered", guest.Name()), guest.ID)

	return &dto.RegistrationResponse{
		GuestID:   guest.ID,
		Status:    string(guest.Status),
		QRPayload: guest.QRPayload(),
		QRCodeURL: TicketQRPath(tenantID, guest.ID),
	}, nil
}

// TicketQR renders the QR code of a registered guest
func (s *registrationService) TicketQR(ctx context.Context, tenantID, guestID string) ([]byte, error) {
	guest, err := s.guestRepo.GetByID(ctx, tenantID, guestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return qrcode.PNG(guest.QRPayload(), qrcode.DefaultSize)
}

// TicketQRPath is the public path of a guest's QR image
func TicketQRPath(tenantID, guestID string) string {
	return fmt.Sprintf("/api/v1/public/tenants/%s/tickets/%s/qr.png", tenantID, guestID)
}

func (s *registrationService) formFields(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, ErrTenantNotFound
	}
	return s.fieldRepo.ListByTenant(ctx, tenantID)
}

// checkStep validates the fixed and dynamic questions of one step
func checkStep(defs []*domain.FieldDefinition, step int, req *dto.RegistrationRequest) *dto.StepValidationResponse {
	res := &dto.StepValidationResponse{
		Step:    step,
		Missing: []dto.MissingField{},
		Invalid: map[string]string{},
	}

	fixed := map[string]interface{}{
		domain.FieldFirstName:           req.FirstName,
		domain.FieldLastName:            req.LastName,
		domain.FieldEmail:               req.Email,
		domain.FieldPhone:               req.Phone,
		domain.FieldGuestCategory:       req.GuestCategory,
		domain.FieldCompanyOrIndividual: req.CompanyOrIndividual,
		domain.FieldDietary:             req.DietaryRestrictions,
		domain.FieldAgreeTerms:          req.AgreeTerms,
	}
	for _, f := range domain.FixedFields(nil) {
		if f.Step != step || !f.Required {
			continue
		}
		if !domain.IsFilled(fixed[f.Name]) {
			res.Missing = append(res.Missing, dto.MissingField{Field: f.Name, Label: f.Label})
		}
	}

	if step == 1 {
		if domain.IsFilled(req.Email) {
			if err := (domain.EmailKind{}).Validate(req.Email); err != nil {
				res.Invalid[domain.FieldEmail] = err.Error()
			}
		}
		if domain.IsFilled(req.GuestCategory) && !domain.IsValidCategory(req.GuestCategory) {
			res.Invalid[domain.FieldGuestCategory] = "guest category must be one of VIP, Guest, Speaker"
		}
	}

	stepDefs := make([]*domain.FieldDefinition, 0, len(defs))
	for _, d := range defs {
		if d.Step == step {
			stepDefs = append(stepDefs, d)
		}
	}
	for _, d := range domain.MissingFields(stepDefs, step, req.CustomFields) {
		res.Missing = append(res.Missing, dto.MissingField{Field: d.ID, Label: d.Label})
	}
	for id, msg := range domain.InvalidFields(stepDefs, req.CustomFields) {
		res.Invalid[id] = msg
	}

	res.Valid = len(res.Missing) == 0 && len(res.Invalid) == 0
	if res.Valid {
		res.NextStep = string(domain.StateForStep(step).Next())
	} else {
		res.NextStep = string(domain.StateForStep(step))
	}
	return res
}

func stepError(res *dto.StepValidationResponse) error {
	fields := make(map[string]string, len(res.Missing)+len(res.Invalid))
	for _, m := range res.Missing {
		fields[m.Field] = m.Label + " is required"
	}
	for id, msg := range res.Invalid {
		fields[id] = msg
	}
	return &ValidationError{
		Message: fmt.Sprintf("Step %d is incomplete", res.Step),
		Fields:  fields,
	}
}
