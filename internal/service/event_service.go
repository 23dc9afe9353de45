package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/uploader"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OtherEventsLimit bounds the upcoming events shown beside a public event
const OtherEventsLimit = 6

// EventService defines the interface for event management
type EventService interface {
	// CreateEvent creates a new event
	CreateEvent(ctx context.Context, tenantID string, req *dto.CreateEventRequest) (*domain.Event, error)
	// GetEvent retrieves an event of a tenant
	GetEvent(ctx context.Context, tenantID, id string) (*domain.Event, error)
	// ListEvents lists events with pagination and search
	ListEvents(ctx context.Context, tenantID string, query *dto.ListEventsQuery) (*dto.ListEventsResponse, error)
	// UpdateEvent updates an event
	UpdateEvent(ctx context.Context, tenantID, id string, req *dto.UpdateEventRequest) (*domain.Event, error)
	// DeleteEvent removes an event
	DeleteEvent(ctx context.Context, tenantID, id string) error
	// UploadImages stores images and appends their URLs to the event
	UploadImages(ctx context.Context, tenantID, id string, files []uploader.File) (*dto.UploadImagesResponse, error)
	// PublicEvent returns an event with the tenant's other upcoming events
	PublicEvent(ctx context.Context, tenantID, id string) (*dto.PublicEventResponse, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	uploader  uploader.ImageUploader
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, imageUploader uploader.ImageUploader) EventService {
	return &eventService{
		eventRepo: eventRepo,
		uploader:  imageUploader,
		now:       time.Now,
	}
}

// CreateEvent creates a new event
func (s *eventService) CreateEvent(ctx context.Context, tenantID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	if ok, msg := req.Validate(); !ok {
		return nil, invalid(msg)
	}

	now := s.now()
	event := &domain.Event{
		ID:              uuid.New().String(),
		TenantID:        tenantID,
		Title:           strings.TrimSpace(req.Title),
		Host:            strings.TrimSpace(req.Host),
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		LocationName:    req.LocationName,
		LocationMapLink: req.LocationMapLink,
		City:            req.City,
		EventType:       req.EventType,
		Price:           req.Price,
		Packages:        dto.ToPackages(req.Packages),
		Images:          []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent retrieves an event of a tenant
func (s *eventService) GetEvent(ctx context.Context, tenantID, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents lists events with pagination and search
func (s *eventService) ListEvents(ctx context.Context, tenantID string, query *dto.ListEventsQuery) (*dto.ListEventsResponse, error) {
	query.SetDefaults()

	events, total, err := s.eventRepo.List(ctx, tenantID, query.Page, query.Limit, strings.TrimSpace(query.Search))
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}

	return &dto.ListEventsResponse{
		Events:     events,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages(total, query.Limit),
	}, nil
}

// UpdateEvent updates an event
func (s *eventService) UpdateEvent(ctx context.Context, tenantID, id string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.GetEvent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Host != nil {
		event.Host = strings.TrimSpace(*req.Host)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if req.LocationName != nil {
		event.LocationName = *req.LocationName
	}
	if req.LocationMapLink != nil {
		event.LocationMapLink = *req.LocationMapLink
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.Packages != nil {
		event.Packages = dto.ToPackages(*req.Packages)
	}

	// re-run the create rules against the merged event
	check := &dto.CreateEventRequest{
		StartDate: event.StartDate,
		EndDate:   event.EndDate,
		Price:     event.Price,
	}
	for _, p := range event.Packages {
		check.Packages = append(check.Packages, dto.EventPackageRequest{Name: p.Name, Price: p.Price})
	}
	if ok, msg := check.Validate(); !ok {
		return nil, invalid(msg)
	}
	event.UpdatedAt = s.now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes an event
func (s *eventService) DeleteEvent(ctx context.Context, tenantID, id string) error {
	if err := s.eventRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

// UploadImages stores images and appends their URLs to the event
func (s *eventService) UploadImages(ctx context.Context, tenantID, id string, files []uploader.File) (*dto.UploadImagesResponse, error) {
	if len(files) == 0 {
		return nil, invalid(uploader.ErrNoFiles.Error())
	}
	if _, err := s.GetEvent(ctx, tenantID, id); err != nil {
		return nil, err
	}

	urls, err := s.uploader.Upload(ctx, uploader.EventFolder(tenantID), files)
	if err != nil {
		logger.ErrorCtx(ctx, "image upload failed",
			zap.String("tenant_id", tenantID),
			zap.String("event_id", id),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	images, err := s.eventRepo.AppendImages(ctx, tenantID, id, urls)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &dto.UploadImagesResponse{Uploaded: urls, Images: images}, nil
}

// PublicEvent returns an event with the tenant's other upcoming events
func (s *eventService) PublicEvent(ctx context.Context, tenantID, id string) (*dto.PublicEventResponse, error) {
	event, err := s.GetEvent(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	others, err := s.eventRepo.ListUpcoming(ctx, tenantID, s.now(), id, OtherEventsLimit)
	if err != nil {
		return nil, err
	}

	summaries := make([]*dto.EventSummary, 0, len(others))
	for _, e := range others {
		summaries = append(summaries, &dto.EventSummary{
			ID:           e.ID,
			Title:        e.Title,
			StartDate:    e.StartDate,
			City:         e.City,
			LocationName: e.LocationName,
			Thumbnail:    e.Thumbnail(),
		})
	}

	return &dto.PublicEventResponse{Event: event, OtherEvents: summaries}, nil
}
