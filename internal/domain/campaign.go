package domain

import (
	"errors"
	"time"
)

// CampaignType is the delivery channel of a campaign
type CampaignType string

const (
	CampaignTypeSMS   CampaignType = "sms"
	CampaignTypeEmail CampaignType = "email"
)

// IsValid returns true for a known channel
func (t CampaignType) IsValid() bool {
	return t == CampaignTypeSMS || t == CampaignTypeEmail
}

// CampaignStatus represents where a campaign is in its lifecycle
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusSent      CampaignStatus = "sent"
)

// ErrInvalidCampaignTransition is returned when a status change is not allowed
var ErrInvalidCampaignTransition = errors.New("invalid campaign status transition")

var validCampaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignStatusDraft:     {CampaignStatusScheduled, CampaignStatusSending, CampaignStatusSent},
	CampaignStatusScheduled: {CampaignStatusDraft, CampaignStatusSending, CampaignStatusSent},
	CampaignStatusSending:   {CampaignStatusSent},
	CampaignStatusSent:      {}, // Terminal state
}

// IsTerminal returns true if no further change is allowed
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusSent
}

// IsValid returns true if the status is known
func (s CampaignStatus) IsValid() bool {
	_, exists := validCampaignTransitions[s]
	return exists
}

// CanTransitionTo returns true if a change to target is allowed
func (s CampaignStatus) CanTransitionTo(target CampaignStatus) bool {
	for _, allowed := range validCampaignTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsEditable reports whether the campaign content may still change
func (s CampaignStatus) IsEditable() bool {
	return s == CampaignStatusDraft || s == CampaignStatusScheduled
}

// Campaign is an SMS or email message aimed at an audience segment
type Campaign struct {
	ID          string         `json:"id"`
	TenantID    string         `json:"tenant_id"`
	Name        string         `json:"name"`
	Type        CampaignType   `json:"type"`
	Status      CampaignStatus `json:"status"`
	Audience    string         `json:"audience,omitempty"`
	Message     string         `json:"message"`
	ImageURL    string         `json:"image_url,omitempty"`
	ScheduledAt *time.Time     `json:"scheduled_at,omitempty"`
	Sent        int            `json:"sent"`
	Delivered   int            `json:"delivered"`
	Opened      int            `json:"opened"`
	Clicked     int            `json:"clicked"`
	SentAt      *time.Time     `json:"sent_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TransitionTo changes status when the transition table allows it
func (c *Campaign) TransitionTo(target CampaignStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(target) {
		return ErrInvalidCampaignTransition
	}
	c.Status = target
	c.UpdatedAt = now
	return nil
}

// MarkSent transitions to sent and records segment-sized delivery counters
func (c *Campaign) MarkSent(segmentSize int, now time.Time) error {
	if err := c.TransitionTo(CampaignStatusSent, now); err != nil {
		return err
	}
	c.Sent = segmentSize
	c.Delivered = segmentSize
	c.Opened = 0
	c.Clicked = 0
	c.SentAt = &now
	return nil
}

// Audience is a fixed recipient segment
type Audience struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Audiences returns the static audience table
func Audiences() []Audience {
	return []Audience{
		{Value: "all", Label: "All Registered", Count: 1200},
		{Value: "checked-in", Label: "Checked In", Count: 847},
		{Value: "pending", Label: "Not Checked In", Count: 353},
		{Value: "vip", Label: "VIP Only", Count: 150},
	}
}

// AudienceCount returns the segment size of an audience
func AudienceCount(value string) (int, bool) {
	for _, a := range Audiences() {
		if a.Value == value {
			return a.Count, true
		}
	}
	return 0, false
}

// MessageTemplate is a canned campaign message
type MessageTemplate struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    CampaignType `json:"type"`
	Message string       `json:"message"`
}

// MessageTemplates returns the static template list
func MessageTemplates() []MessageTemplate {
	return []MessageTemplate{
		{
			ID:      "welcome",
			Name:    "Welcome",
			Type:    CampaignTypeSMS,
			Message: "Welcome! Your ticket is confirmed. Show your QR code at the entrance.",
		},
		{
			ID:      "reminder",
			Name:    "Event Reminder",
			Type:    CampaignTypeSMS,
			Message: "Reminder: the event starts soon. Doors open one hour before the first session.",
		},
		{
			ID:      "thank-you",
			Name:    "Thank You",
			Type:    CampaignTypeEmail,
			Message: "Thank you for attending! We hope to see you at our next event.",
		},
		{
			ID:      "vip-invite",
			Name:    "VIP Lounge Invite",
			Type:    CampaignTypeEmail,
			Message: "As a VIP guest you have access to the lounge throughout the event.",
		},
	}
}
