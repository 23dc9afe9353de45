package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/export"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"go.uber.org/zap"
)

// GuestService defines the admin side of the guest lifecycle
type GuestService interface {
	// ListGuests returns a filtered page of guests
	ListGuests(ctx context.Context, tenantID string, query *dto.ListGuestsQuery) (*dto.ListGuestsResponse, error)
	// GetGuest returns one guest
	GetGuest(ctx context.Context, tenantID, id string) (*domain.Guest, error)
	// UpdateGuest edits a guest. A status change goes through the transition table.
	UpdateGuest(ctx context.Context, tenantID, id string, req *dto.UpdateGuestRequest) (*domain.Guest, error)
	// DeleteGuest hard deletes a guest
	DeleteGuest(ctx context.Context, tenantID, id string) error
	// ToggleCheckIn undoes a check-in, or checks the guest in
	ToggleCheckIn(ctx context.Context, tenantID, id string) (*domain.Guest, error)
	// ExportGuests writes the selected guests, or all of them, as a spreadsheet
	ExportGuests(ctx context.Context, tenantID string, guestIDs []string) (*ExportFile, error)
}

// ExportFile is a generated spreadsheet
type ExportFile struct {
	Filename    string
	ContentType string
	Rows        int
	Content     []byte
}

type guestService struct {
	guestRepo    repository.GuestRepository
	fieldRepo    repository.FieldRepository
	activityRepo repository.ActivityRepository
	metrics      *telemetry.Metrics
}

// NewGuestService creates a new GuestService
func NewGuestService(
	guestRepo repository.GuestRepository,
	fieldRepo repository.FieldRepository,
	activityRepo repository.ActivityRepository,
	metrics *telemetry.Metrics,
) GuestService {
	return &guestService{
		guestRepo:    guestRepo,
		fieldRepo:    fieldRepo,
		activityRepo: activityRepo,
		metrics:      metrics,
	}
}

// ListGuests returns a filtered page of guests
func (s *guestService) ListGuests(ctx context.Context, tenantID string, query *dto.ListGuestsQuery) (*dto.ListGuestsResponse, error) {
	query.SetDefaults()

	guests, total, err := s.guestRepo.List(ctx, tenantID, repository.GuestFilter{
		Search:     strings.TrimSpace(query.Search),
		Status:     query.Status,
		TicketType: query.TicketType,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.GuestResponse, 0, len(guests))
	for _, g := range guests {
		items = append(items, dto.NewGuestResponse(g))
	}

	return &dto.ListGuestsResponse{
		Guests:     items,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages(total, query.Limit),
	}, nil
}

// GetGuest returns one guest
func (s *guestService) GetGuest(ctx context.Context, tenantID, id string) (*domain.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

// UpdateGuest edits a guest
func (s *guestService) UpdateGuest(ctx context.Context, tenantID, id string, req *dto.UpdateGuestRequest) (*domain.Guest, error) {
	guest, err := s.GetGuest(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, guest.Email) {
			existing, err := s.guestRepo.FindByEmail(ctx, tenantID, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != guest.ID {
				return nil, ErrDuplicateGuest
			}
		}
		guest.Email = email
	}
	if req.FirstName != nil {
		guest.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		guest.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		guest.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.CompanyOrIndividual != nil {
		guest.CompanyOrIndividual = strings.TrimSpace(*req.CompanyOrIndividual)
	}
	if req.GuestCategory != nil {
		guest.GuestCategory = *req.GuestCategory
	}
	if req.DietaryRestrictions != nil {
		guest.DietaryRestrictions = *req.DietaryRestrictions
	}
	if req.AmountPaid != nil {
		guest.AmountPaid = *req.AmountPaid
	}
	if req.CustomFields != nil {
		guest.CustomFields = *req.CustomFields
	}

	now := time.Now()
	if req.Status != nil {
		target := domain.GuestStatus(*req.Status)
		if !target.IsValid() {
			return nil, invalid("Unknown guest status")
		}
		if err := guest.TransitionTo(target, now); err != nil {
			return nil, invalid(fmt.Sprintf("Cannot change status from %s to %s", guest.Status, target))
		}
	}
	guest.UpdatedAt = now

	if err := s.guestRepo.Update(ctx, guest); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return guest, nil
}

// DeleteGuest hard deletes a guest
func (s *guestService) DeleteGuest(ctx context.Context, tenantID, id string) error {
	if err := s.guestRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGuestNotFound
		}
		return err
	}
	logger.InfoCtx(ctx, "guest deleted", zap.String("tenant_id", tenantID), zap.String("guest_id", id))
	return nil
}

// ToggleCheckIn undoes a check-in, or checks the guest in
func (s *guestService) ToggleCheckIn(ctx context.Context, tenantID, id string) (*domain.Guest, error) {
	guest, err := s.GetGuest(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	target := domain.GuestStatusCheckedIn
	activity := domain.ActivityCheckedIn
	verb := "checked in"
	if guest.IsCheckedIn() {
		target = domain.GuestStatusPending
		activity = domain.ActivityCheckInUndone
		verb = "check-in undone"
	}

	if err := guest.TransitionTo(target, time.Now()); err != nil {
		return nil, err
	}
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}

	s.metrics.RecordManualCheckIn(ctx, tenantID, string(guest.Status))
	recordActivity(ctx, s.activityRepo, tenantID, activity, fmt.Sprintf("%s %s", guest.Name(), verb), guest.ID)
	return guest, nil
}

// ExportGuests writes the selected guests, or all of them, as a spreadsheet
func (s *guestService) ExportGuests(ctx context.Context, tenantID string, guestIDs []string) (*ExportFile, error) {
	guests, _, err := s.guestRepo.List(ctx, tenantID, repository.GuestFilter{IDs: guestIDs})
	if err != nil {
		return nil, err
	}
	defs, err := s.fieldRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	rows, err := export.WriteGuests(&buf, guests, defs)
	if err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	s.metrics.RecordExport(ctx, tenantID, rows)

	return &ExportFile{
		Filename:    export.Filename(time.Now()),
		ContentType: export.ContentType,
		Rows:        rows,
		Content:     buf.Bytes(),
	}, nil
}
