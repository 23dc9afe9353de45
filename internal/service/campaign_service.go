package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CampaignService defines the campaign composer
type CampaignService interface {
	// CreateCampaign stores a campaign as a draft, sends it, or schedules it
	CreateCampaign(ctx context.Context, tenantID string, req *dto.CreateCampaignRequest) (*domain.Campaign, error)
	// ListCampaigns returns a filtered page of campaigns
	ListCampaigns(ctx context.Context, tenantID string, query *dto.ListCampaignsQuery) (*dto.ListCampaignsResponse, error)
	// GetCampaign returns one campaign
	GetCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	// UpdateCampaign edits a draft or scheduled campaign
	UpdateCampaign(ctx context.Context, tenantID, id string, req *dto.UpdateCampaignRequest) (*domain.Campaign, error)
	// SendCampaign sends a stored campaign now
	SendCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error)
	// DeleteCampaign removes a campaign
	DeleteCampaign(ctx context.Context, tenantID, id string) error
	// Audiences returns the audience segments
	Audiences() []domain.Audience
	// Templates returns the canned messages
	Templates() []domain.MessageTemplate
}

type campaignService struct {
	campaignRepo repository.CampaignRepository
	activityRepo repository.ActivityRepository
	producer     kafka.Producer
	metrics      *telemetry.Metrics
	now          func() time.Time
}

// NewCampaignService creates a new CampaignService
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	activityRepo repository.ActivityRepository,
	producer kafka.Producer,
	metrics *telemetry.Metrics,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		activityRepo: activityRepo,
		producer:     producer,
		metrics:      metrics,
		now:          time.Now,
	}
}

// CreateCampaign stores a campaign as a draft, sends it, or schedules it
func (s *campaignService) CreateCampaign(ctx context.Context, tenantID string, req *dto.CreateCampaignRequest) (*domain.Campaign, error) {
	now := s.now()
	campaign := &domain.Campaign{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Type:      domain.CampaignType(req.Type),
		Status:    domain.CampaignStatusDraft,
		Audience:  req.Audience,
		Message:   req.Message,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if campaign.Type == "" {
		campaign.Type = domain.CampaignTypeSMS
	}
	if !campaign.Type.IsValid() {
		return nil, invalid("Campaign type must be sms or email")
	}
	if strings.TrimSpace(campaign.Message) == "" {
		return nil, invalid("Message is required")
	}
	if campaign.Name == "" && req.Action != dto.CampaignActionDraft {
		return nil, invalid("Campaign name is required")
	}

	switch req.Action {
	case dto.CampaignActionDraft:
		if campaign.Audience != "" {
			if err := checkAudience(campaign.Audience); err != nil {
				return nil, err
			}
		}
	case dto.CampaignActionSchedule:
		if err := checkAudience(campaign.Audience); err != nil {
			return nil, err
		}
		if req.ScheduledAt == nil || !req.ScheduledAt.After(now) {
			return nil, invalid("Scheduled time must be in the future")
		}
		scheduled := req.ScheduledAt.UTC()
		campaign.ScheduledAt = &scheduled
		campaign.Status = domain.CampaignStatusScheduled
	case dto.CampaignActionSend:
		if err := checkAudience(campaign.Audience); err != nil {
			return nil, err
		}
		if err := s.markSent(campaign, now); err != nil {
			return nil, err
		}
	default:
		return nil, invalid("Action must be draft, send or schedule")
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "campaign created",
		zap.String("tenant_id", tenantID),
		zap.String("campaign_id", campaign.ID),
		zap.String("status", string(campaign.Status)),
	)
	if campaign.Status == domain.CampaignStatusSent {
		s.announce(ctx, campaign)
	}
	return campaign, nil
}

// ListCampaigns returns a filtered page of campaigns
func (s *campaignService) ListCampaigns(ctx context.Context, tenantID string, query *dto.ListCampaignsQuery) (*dto.ListCampaignsResponse, error) {
	query.SetDefaults()

	campaigns, total, err := s.campaignRepo.List(ctx, tenantID, query.Status, query.Type, query.Page, query.Limit)
	if err != nil {
		return nil, err
	}
	if campaigns == nil {
		campaigns = []*domain.Campaign{}
	}

	return &dto.ListCampaignsResponse{
		Campaigns:  campaigns,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages(total, query.Limit),
	}, nil
}

// GetCampaign returns one campaign
func (s *campaignService) GetCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// UpdateCampaign edits a draft or scheduled campaign
func (s *campaignService) UpdateCampaign(ctx context.Context, tenantID, id string, req *dto.UpdateCampaignRequest) (*domain.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !campaign.Status.IsEditable() {
		return nil, ErrCampaignNotEditable
	}

	if req.Name != nil {
		campaign.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		campaign.Type = domain.CampaignType(*req.Type)
	}
	if req.Audience != nil {
		if *req.Audience != "" {
			if err := checkAudience(*req.Audience); err != nil {
				return nil, err
			}
		}
		campaign.Audience = *req.Audience
	}
	if req.Message != nil {
		campaign.Message = *req.Message
	}
	if req.ImageURL != nil {
		campaign.ImageURL = *req.ImageURL
	}
	if req.ScheduledAt != nil {
		scheduled := req.ScheduledAt.UTC()
		campaign.ScheduledAt = &scheduled
	}

	now := s.now()
	if req.Status != nil && domain.CampaignStatus(*req.Status) != campaign.Status {
		if err := campaign.TransitionTo(domain.CampaignStatus(*req.Status), now); err != nil {
			return nil, invalid(err.Error())
		}
	}
	if campaign.Status == domain.CampaignStatusScheduled {
		if err := checkAudience(campaign.Audience); err != nil {
			return nil, err
		}
		if campaign.ScheduledAt == nil || !campaign.ScheduledAt.After(now) {
			return nil, invalid("Scheduled time must be in the future")
		}
	}
	if campaign.Status == domain.CampaignStatusDraft {
		campaign.ScheduledAt = nil
	}
	campaign.UpdatedAt = now

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// SendCampaign sends a stored campaign now
func (s *campaignService) SendCampaign(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checkAudience(campaign.Audience); err != nil {
		return nil, err
	}
	if err := s.markSent(campaign, s.now()); err != nil {
		return nil, err
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	s.announce(ctx, campaign)
	return campaign, nil
}

// DeleteCampaign removes a campaign
func (s *campaignService) DeleteCampaign(ctx context.Context, tenantID, id string) error {
	if err := s.campaignRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCampaignNotFound
		}
		return err
	}
	return nil
}

// Audiences returns the audience segments
func (s *campaignService) Audiences() []domain.Audience {
	return domain.Audiences()
}

// Templates returns the canned messages
func (s *campaignService) Templates() []domain.MessageTemplate {
	return domain.MessageTemplates()
}

func (s *campaignService) markSent(campaign *domain.Campaign, now time.Time) error {
	size, _ := domain.AudienceCount(campaign.Audience)
	if err := campaign.MarkSent(size, now); err != nil {
		return invalid("Campaign has already been sent")
	}
	campaign.ScheduledAt = nil
	return nil
}

// announce publishes the send intent and records it
func (s *campaignService) announce(ctx context.Context, campaign *domain.Campaign) {
	s.metrics.RecordCampaignSend(ctx, campaign.TenantID, campaign.Audience, campaign.Sent)
	publish(ctx, s.producer, dto.TopicCampaignSent, &dto.CampaignSentEvent{
		EventType:  "campaign.sent",
		TenantID:   campaign.TenantID,
		CampaignID: campaign.ID,
		Type:       string(campaign.Type),
		Audience:   campaign.Audience,
		Recipients: campaign.Sent,
		Message:    campaign.Message,
		ImageURL:   campaign.ImageURL,
		Timestamp:  s.now(),
	})
	recordActivity(ctx, s.activityRepo, campaign.TenantID, domain.ActivityCampaignSent,
		"Campaign \""+campaign.Name+"\" sent", campaign.ID)
}

func checkAudience(audience string) error {
	if audience == "" {
		return invalid("Audience is required")
	}
	if _, ok := domain.AudienceCount(audience); !ok {
		return invalid("Unknown audience " + audience)
	}
	return nil
}
