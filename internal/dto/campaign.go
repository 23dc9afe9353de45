package dto

import (
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// Campaign composer actions
const (
	CampaignActionDraft    = "draft"
	CampaignActionSend     = "send"
	CampaignActionSchedule = "schedule"
)

// CreateCampaignRequest represents the composer submitting a campaign.
// A draft needs only a message; type defaults to sms.
type CreateCampaignRequest struct {
	Action      string     `json:"action" binding:"required,oneof=draft send schedule"`
	Name        string     `json:"name" binding:"omitempty,max=255"`
	Type        string     `json:"type" binding:"omitempty,oneof=sms email"`
	Audience    string     `json:"audience" binding:"omitempty,max=50"`
	Message     string     `json:"message" binding:"required"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateCampaignRequest represents an edit of a draft or scheduled campaign
type UpdateCampaignRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Type        *string    `json:"type" binding:"omitempty,oneof=sms email"`
	Audience    *string    `json:"audience" binding:"omitempty,max=50"`
	Message     *string    `json:"message" binding:"omitempty,min=1"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Status      *string    `json:"status" binding:"omitempty,oneof=draft scheduled"`
}

// Validate validates that at least one field is provided for update
func (r *UpdateCampaignRequest) Validate() (bool, string) {
	if r.Name == nil && r.Type == nil && r.Audience == nil && r.Message == nil &&
		r.ImageURL == nil && r.ScheduledAt == nil && r.Status == nil {
		return false, "At least one field must be provided for update"
	}
	return true, ""
}

// ListCampaignsQuery represents query parameters for listing campaigns
type ListCampaignsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=draft scheduled sending sent"`
	Type   string `form:"type" binding:"omitempty,oneof=sms email"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults sets default values for query parameters
func (q *ListCampaignsQuery) SetDefaults() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
}

// ListCampaignsResponse represents a paginated list of campaigns
type ListCampaignsResponse struct {
	Campaigns  []*domain.Campaign `json:"campaigns"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
